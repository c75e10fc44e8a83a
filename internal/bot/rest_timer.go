package bot

import "sync"

// RestTimer — таймер отдыха между подходами. Один на чат,
// новый запуск заменяет предыдущий, уход с экрана тренировки отменяет.
type RestTimer struct {
	mu        sync.Mutex
	remaining int
	resting   bool
	done      chan struct{}
}

// NewRestTimer запускает отсчёт с указанного числа секунд
func NewRestTimer(seconds int) *RestTimer {
	return &RestTimer{
		remaining: seconds,
		resting:   true,
		done:      make(chan struct{}),
	}
}

// Tick уменьшает счётчик на секунду.
// Возвращает true, когда отдых закончился или был отменён.
func (t *RestTimer) Tick() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.resting {
		return true
	}
	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.resting = false
		close(t.done)
		return true
	}
	return false
}

// Cancel останавливает отсчёт досрочно
func (t *RestTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.resting {
		return
	}
	t.resting = false
	t.remaining = 0
	close(t.done)
}

// Done закрывается по окончании или отмене отсчёта
func (t *RestTimer) Done() <-chan struct{} {
	return t.done
}

// Resting сообщает, идёт ли сейчас отдых
func (t *RestTimer) Resting() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resting
}

// Remaining возвращает оставшиеся секунды
func (t *RestTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}
