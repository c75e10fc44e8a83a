package bot

import (
	"testing"
	"time"
)

func TestReminderDue(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"morning slot", time.Date(2025, 3, 10, 8, 0, 30, 0, time.Local), true},
		{"evening slot", time.Date(2025, 3, 10, 22, 0, 0, 0, time.Local), true},
		{"between slots", time.Date(2025, 3, 10, 9, 30, 0, 0, time.Local), false},
		{"one minute late", time.Date(2025, 3, 10, 8, 1, 0, 0, time.Local), false},
		{"night", time.Date(2025, 3, 10, 3, 0, 0, 0, time.Local), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, due := reminderDue(tt.at)
			if due != tt.want {
				t.Errorf("reminderDue(%v) = %v, want %v", tt.at, due, tt.want)
			}
			if due && key == "" {
				t.Error("попадание в слот должно возвращать непустой ключ")
			}
		})
	}
}

func TestMarkReminderFiredDedup(t *testing.T) {
	chatID := int64(777001)
	t.Cleanup(func() { resetAppState(chatID) })

	if !markReminderFired(chatID, "8:0") {
		t.Fatal("первая отметка должна пройти")
	}
	if markReminderFired(chatID, "8:0") {
		t.Error("повторная отметка той же минуты должна быть отклонена")
	}
	if !markReminderFired(chatID, "10:0") {
		t.Error("новый слот должен пройти")
	}
}
