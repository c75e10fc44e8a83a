package bot

import (
	"errors"
	"log"
	"sync"
	"time"

	"fitprobot/clients/gateway"
	"fitprobot/internal/models"
	"fitprobot/internal/nutrition"
	"fitprobot/internal/repository"
)

// Screen — текущий экран пользователя
type Screen string

const (
	ScreenAuth         Screen = "auth"
	ScreenOnboarding   Screen = "onboarding"
	ScreenSubscription Screen = "subscription"
	ScreenDashboard    Screen = "dashboard"
	ScreenWorkout      Screen = "workout"
	ScreenDiet         Screen = "diet"
	ScreenProgress     Screen = "progress"
	ScreenProfile      Screen = "profile"
)

// routeReason — причина перехода на экран, пишется в лог
type routeReason string

const (
	reasonNoSession            routeReason = "no_session"
	reasonProfileMissing       routeReason = "profile_missing"
	reasonProfileIncomplete    routeReason = "profile_incomplete"
	reasonSubscriptionInactive routeReason = "subscription_inactive"
	reasonLoadFailed           routeReason = "load_failed"
	reasonReady                routeReason = "ready"
)

// AppState — всё состояние одного чата: сессия, данные, экран, таймер.
// Доступ только через appStates под блокировкой.
type AppState struct {
	Session      *gateway.Session
	Realtime     *gateway.Subscription
	User         *models.UserData
	Subscription *models.Subscription
	Workout      *models.Workout
	Meals        []models.Meal
	Water        *models.WaterIntake
	Macros       nutrition.Summary
	Screen       Screen

	RestTimer    *RestTimer
	LastReminder string

	// Черновики форм (регистрация, анкета, добавление еды)
	Form      map[string]string
	Equipment map[string]bool
}

var appStates = struct {
	sync.RWMutex
	states map[int64]*AppState
}{states: make(map[int64]*AppState)}

// getAppState возвращает состояние чата, создавая его при первом обращении
func getAppState(chatID int64) *AppState {
	appStates.Lock()
	defer appStates.Unlock()

	state, ok := appStates.states[chatID]
	if !ok {
		state = &AppState{
			Screen:    ScreenAuth,
			Form:      make(map[string]string),
			Equipment: make(map[string]bool),
		}
		appStates.states[chatID] = state
	}
	return state
}

// resetAppState сбрасывает состояние чата при выходе.
// Таймер и realtime-подписка останавливаются до удаления.
func resetAppState(chatID int64) {
	appStates.Lock()
	state := appStates.states[chatID]
	delete(appStates.states, chatID)
	appStates.Unlock()

	if state == nil {
		return
	}
	if state.RestTimer != nil {
		state.RestTimer.Cancel()
	}
	if state.Realtime != nil {
		state.Realtime.Unsubscribe()
	}
	clearState(chatID)
}

// withState выполняет fn над состоянием чата под блокировкой
func withState(chatID int64, fn func(*AppState)) {
	state := getAppState(chatID)
	appStates.Lock()
	defer appStates.Unlock()
	fn(state)
}

// resolveScreen — чистая маршрутизация: по загруженным данным решает,
// какой экран показать. Ошибка загрузки трактуется как отсутствие
// подписки, а не как доступ.
func resolveScreen(session *gateway.Session, user *models.UserData, sub *models.Subscription, loadErr error) (Screen, routeReason) {
	if session == nil {
		return ScreenAuth, reasonNoSession
	}
	if errors.Is(loadErr, repository.ErrProfileMissing) {
		return ScreenOnboarding, reasonProfileMissing
	}
	if loadErr != nil {
		return ScreenSubscription, reasonLoadFailed
	}
	if user == nil || !user.OnboardingComplete() {
		return ScreenOnboarding, reasonProfileIncomplete
	}
	if sub == nil || !sub.IsActive() {
		return ScreenSubscription, reasonSubscriptionInactive
	}
	return ScreenDashboard, reasonReady
}

// loadUserData выполняет полную последовательность загрузки и маршрутизацию.
// Идемпотентна: и ручной запуск, и событие realtime сходятся сюда.
// Ответы для уже завершённой сессии отбрасываются по user id.
func (b *Bot) loadUserData(chatID int64) {
	session := b.ensureFreshSession(chatID)
	if session == nil {
		b.showAuth(chatID)
		return
	}
	userID := session.UserID

	user, err := b.repo.User.GetUserData(session.AccessToken, userID)
	if err != nil && !errors.Is(err, repository.ErrProfileMissing) {
		log.Printf("Ошибка загрузки пользователя [chat=%d]: %v", chatID, err)
	}

	var sub *models.Subscription
	if err == nil && user != nil && user.OnboardingComplete() {
		sub, _ = b.repo.Subscription.GetActive(session.AccessToken, userID)
	}

	// Пока шла загрузка, пользователь мог выйти или войти заново
	if !b.sessionStillCurrent(chatID, userID) {
		log.Printf("Ответ для завершённой сессии отброшен [chat=%d]", chatID)
		return
	}

	screen, reason := resolveScreen(session, user, sub, err)
	log.Printf("Маршрутизация [chat=%d]: %s (%s)", chatID, screen, reason)

	withState(chatID, func(s *AppState) {
		s.User = user
		s.Subscription = sub
		s.Screen = screen
	})

	switch screen {
	case ScreenOnboarding:
		b.showOnboarding(chatID)
	case ScreenSubscription:
		b.showSubscriptionGate(chatID)
	case ScreenDashboard:
		b.loadDashboardData(chatID)
		b.showDashboard(chatID)
	}
}

// loadDashboardData подтягивает тренировку, рацион и воду за сегодня.
// Ошибки пишутся в лог, карточки остаются пустыми.
func (b *Bot) loadDashboardData(chatID int64) {
	session := b.ensureFreshSession(chatID)
	if session == nil {
		return
	}
	userID := session.UserID
	date := today()

	workout, err := b.repo.Workout.GetCurrent(session.AccessToken, userID)
	if err != nil && !errors.Is(err, gateway.ErrNotFound) {
		log.Printf("Ошибка загрузки тренировки [chat=%d]: %v", chatID, err)
	}

	meals, err := b.repo.Meal.GetForDate(session.AccessToken, userID, date)
	if err != nil {
		log.Printf("Ошибка загрузки рациона [chat=%d]: %v", chatID, err)
	}

	water, err := b.repo.Water.GetForDate(session.AccessToken, userID, date)
	if err != nil {
		log.Printf("Ошибка загрузки воды [chat=%d]: %v", chatID, err)
		water = &models.WaterIntake{UserID: userID, Target: repository.WaterTarget, Date: date}
	}

	if !b.sessionStillCurrent(chatID, userID) {
		log.Printf("Ответ для завершённой сессии отброшен [chat=%d]", chatID)
		return
	}

	withState(chatID, func(s *AppState) {
		s.Workout = workout
		s.Meals = meals
		s.Water = water
		s.Macros = nutrition.Aggregate(meals)
	})
}

// sessionStillCurrent проверяет, что сессия чата всё ещё принадлежит userID
func (b *Bot) sessionStillCurrent(chatID int64, userID string) bool {
	state := getAppState(chatID)
	appStates.RLock()
	defer appStates.RUnlock()
	return state.Session != nil && state.Session.UserID == userID
}

// today возвращает сегодняшнюю дату в формате хранилища
func today() string {
	return time.Now().Format("2006-01-02")
}
