package bot

import (
	"errors"
	"testing"

	"fitprobot/clients/gateway"
	"fitprobot/internal/models"
	"fitprobot/internal/repository"
)

func TestResolveScreen(t *testing.T) {
	session := &gateway.Session{UserID: "user-1"}
	complete := &models.UserData{ID: "user-1", Goal: "lose_weight", Level: "beginner"}
	incomplete := &models.UserData{ID: "user-1", Name: "Анна"}
	active := &models.Subscription{Status: models.SubscriptionActive}
	expired := &models.Subscription{Status: "cancelled"}

	tests := []struct {
		name    string
		session *gateway.Session
		user    *models.UserData
		sub     *models.Subscription
		loadErr error
		want    Screen
	}{
		{"no session", nil, nil, nil, nil, ScreenAuth},
		{"profile missing", session, nil, nil, repository.ErrProfileMissing, ScreenOnboarding},
		{"onboarding incomplete", session, incomplete, nil, nil, ScreenOnboarding},
		{"no user data", session, nil, nil, nil, ScreenOnboarding},
		{"no subscription", session, complete, nil, nil, ScreenSubscription},
		{"expired subscription", session, complete, expired, nil, ScreenSubscription},
		{"load error closes access", session, complete, active, errors.New("gateway down"), ScreenSubscription},
		{"everything ready", session, complete, active, nil, ScreenDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := resolveScreen(tt.session, tt.user, tt.sub, tt.loadErr)
			if got != tt.want {
				t.Errorf("resolveScreen() = %v (%v), want %v", got, reason, tt.want)
			}
		})
	}
}

func TestUpdateExerciseChangesOneField(t *testing.T) {
	chatID := int64(777100)
	t.Cleanup(func() { resetAppState(chatID) })

	withState(chatID, func(s *AppState) {
		s.Workout = &models.Workout{
			Name: "День ног",
			Exercises: []models.Exercise{
				{Name: "Присед", Sets: 4, Reps: "8", Weight: 60, Rest: 120},
				{Name: "Выпады", Sets: 3, Reps: "12", Weight: 20, Rest: 90},
			},
		}
	})

	b := &Bot{}
	b.updateExercise(chatID, 0, "weight", 62.5)

	state := getAppState(chatID)
	appStates.RLock()
	defer appStates.RUnlock()

	first := state.Workout.Exercises[0]
	if first.Weight != 62.5 {
		t.Errorf("Weight = %v, want 62.5", first.Weight)
	}
	if first.Sets != 4 || first.Reps != "8" || first.Completed {
		t.Errorf("остальные поля упражнения не должны меняться: %+v", first)
	}
	if state.Workout.Exercises[1].Weight != 20 {
		t.Error("изменение затронуло соседнее упражнение")
	}
}

func TestUpdateExerciseOutOfRange(t *testing.T) {
	chatID := int64(777101)
	t.Cleanup(func() { resetAppState(chatID) })

	withState(chatID, func(s *AppState) {
		s.Workout = &models.Workout{Exercises: []models.Exercise{{Name: "Присед"}}}
	})

	b := &Bot{}
	// Не должно паниковать
	b.updateExercise(chatID, 5, "completed", true)
	b.updateExercise(chatID, -1, "completed", true)
}

func TestAddWaterGlassClampsAtTarget(t *testing.T) {
	chatID := int64(777102)
	t.Cleanup(func() { resetAppState(chatID) })

	withState(chatID, func(s *AppState) {
		s.Session = &gateway.Session{UserID: "user-1"}
		s.Water = &models.WaterIntake{UserID: "user-1", Glasses: 8, Target: 8, Date: "2025-03-10"}
	})

	b := &Bot{}
	// Норма достигнута: счётчик не растёт и запрос на бэкенд не уходит
	b.addWaterGlass(chatID)

	state := getAppState(chatID)
	appStates.RLock()
	defer appStates.RUnlock()
	if state.Water.Glasses != 8 {
		t.Errorf("Glasses = %d, выше нормы подниматься нельзя", state.Water.Glasses)
	}
}

func TestResetAppStateClearsEverything(t *testing.T) {
	chatID := int64(777103)

	withState(chatID, func(s *AppState) {
		s.Session = &gateway.Session{UserID: "user-1"}
		s.User = &models.UserData{ID: "user-1"}
		s.RestTimer = NewRestTimer(60)
		s.Screen = ScreenWorkout
	})
	setState(chatID, "exercise_weight_0")

	resetAppState(chatID)

	state := getAppState(chatID)
	appStates.RLock()
	session := state.Session
	screen := state.Screen
	appStates.RUnlock()

	if session != nil {
		t.Error("сессия должна быть сброшена")
	}
	if screen != ScreenAuth {
		t.Errorf("Screen = %v, want %v", screen, ScreenAuth)
	}
	if getState(chatID) != "" {
		t.Error("состояние ввода должно быть сброшено")
	}
}

func TestSessionStillCurrent(t *testing.T) {
	chatID := int64(777104)
	t.Cleanup(func() { resetAppState(chatID) })

	b := &Bot{}
	withState(chatID, func(s *AppState) {
		s.Session = &gateway.Session{UserID: "user-1"}
	})

	if !b.sessionStillCurrent(chatID, "user-1") {
		t.Error("живая сессия того же пользователя должна подтверждаться")
	}
	if b.sessionStillCurrent(chatID, "user-2") {
		t.Error("ответ для другого пользователя должен отбрасываться")
	}

	withState(chatID, func(s *AppState) { s.Session = nil })
	if b.sessionStillCurrent(chatID, "user-1") {
		t.Error("после выхода загрузки должны отбрасываться")
	}
}
