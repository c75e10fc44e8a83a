package bot

import "testing"

func TestRestTimerCountsDownToZero(t *testing.T) {
	timer := NewRestTimer(90)

	if !timer.Resting() {
		t.Fatal("после запуска Resting() = false")
	}
	if timer.Remaining() != 90 {
		t.Fatalf("Remaining() = %d, want 90", timer.Remaining())
	}

	for i := 0; i < 89; i++ {
		if timer.Tick() {
			t.Fatalf("отсчёт закончился раньше времени, тик %d", i+1)
		}
	}
	if !timer.Tick() {
		t.Fatal("последний тик должен завершить отсчёт")
	}

	if timer.Resting() {
		t.Error("после нуля Resting() = true")
	}
	if timer.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", timer.Remaining())
	}

	select {
	case <-timer.Done():
	default:
		t.Error("Done() не закрыт после окончания отсчёта")
	}
}

func TestRestTimerCancel(t *testing.T) {
	timer := NewRestTimer(120)
	timer.Cancel()

	if timer.Resting() {
		t.Error("после отмены Resting() = true")
	}
	if timer.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", timer.Remaining())
	}

	// Повторная отмена и тик после отмены не должны паниковать
	timer.Cancel()
	if !timer.Tick() {
		t.Error("Tick после отмены должен сообщать о завершении")
	}
}

func TestRestTimerImmediateFinish(t *testing.T) {
	timer := NewRestTimer(1)
	if !timer.Tick() {
		t.Error("один тик таймера на одну секунду должен завершить отсчёт")
	}
}
