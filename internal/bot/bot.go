package bot

import (
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitprobot/clients/gateway"
	"fitprobot/internal/config"
	"fitprobot/internal/prefs"
	"fitprobot/internal/repository"
)

const (
	commandStart = "start"
	commandHelp  = "help"
)

// Bot представляет Telegram бота
type Bot struct {
	api     *tgbotapi.BotAPI
	gateway *gateway.Client
	repo    *repository.Repository
	prefs   *prefs.Store
	config  *config.Config
}

// New создаёт новый экземпляр бота
func New(api *tgbotapi.BotAPI, gw *gateway.Client, store *prefs.Store, cfg *config.Config) *Bot {
	return &Bot{
		api:     api,
		gateway: gw,
		repo:    repository.New(gw),
		prefs:   store,
		config:  cfg,
	}
}

// Start запускает цикл обработки обновлений
func (b *Bot) Start() error {
	b.restoreSessions()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)
	b.handleUpdates(updates)
	return nil
}

func (b *Bot) handleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
			continue
		}
		if update.Message == nil {
			continue
		}

		if update.Message.IsCommand() {
			b.handleCommand(update.Message)
			continue
		}
		b.handleMessage(update.Message)
	}
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	switch message.Command() {
	case commandStart:
		clearState(chatID)
		state := getAppState(chatID)
		appStates.RLock()
		hasSession := state.Session != nil
		appStates.RUnlock()

		if hasSession {
			b.loadUserData(chatID)
		} else {
			b.showAuth(chatID)
		}

	case commandHelp:
		b.sendMessage(chatID, b.t("help_text", chatID))

	default:
		b.sendMessage(chatID, b.t("unknown_command", chatID))
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	state := getState(chatID)

	// Состояния ввода форм
	if strings.HasPrefix(state, "auth_") {
		b.processAuthInput(message, state)
		return
	}
	if strings.HasPrefix(state, "meal_") {
		b.processMealInput(message, state)
		return
	}
	if strings.HasPrefix(state, "exercise_") {
		b.processExerciseInput(message, state)
		return
	}
	if strings.HasPrefix(state, "measure_") {
		b.processMeasurementInput(message, state)
		return
	}

	// Кнопки главного меню
	if b.handleNavigation(message) {
		return
	}

	b.sendMessage(chatID, b.t("unknown_input", chatID))
}

// handleNavigation сравнивает текст с кнопками главного меню
func (b *Bot) handleNavigation(message *tgbotapi.Message) bool {
	chatID := message.Chat.ID
	text := message.Text

	appState := getAppState(chatID)
	appStates.RLock()
	hasSession := appState.Session != nil
	screen := appState.Screen
	appStates.RUnlock()

	if !hasSession {
		return false
	}
	// До дашборда навигация недоступна
	if screen == ScreenAuth || screen == ScreenOnboarding || screen == ScreenSubscription {
		return false
	}

	var target Screen
	switch text {
	case b.t("nav_dashboard", chatID):
		target = ScreenDashboard
	case b.t("nav_workout", chatID):
		target = ScreenWorkout
	case b.t("nav_diet", chatID):
		target = ScreenDiet
	case b.t("nav_progress", chatID):
		target = ScreenProgress
	case b.t("nav_profile", chatID):
		target = ScreenProfile
	default:
		return false
	}

	b.navigateTo(chatID, target)
	return true
}

// navigateTo переключает экран. Уход с тренировки гасит таймер отдыха.
func (b *Bot) navigateTo(chatID int64, target Screen) {
	clearState(chatID)

	withState(chatID, func(s *AppState) {
		if s.Screen == ScreenWorkout && target != ScreenWorkout && s.RestTimer != nil {
			s.RestTimer.Cancel()
		}
		s.Screen = target
	})

	switch target {
	case ScreenDashboard:
		b.loadDashboardData(chatID)
		b.showDashboard(chatID)
	case ScreenWorkout:
		b.showWorkout(chatID)
	case ScreenDiet:
		b.showDiet(chatID)
	case ScreenProgress:
		b.showProgress(chatID)
	case ScreenProfile:
		b.showProfile(chatID)
	}
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	// У callback от сообщения старше 48 часов поле Message пустое
	if callback.Message == nil {
		log.Printf("Callback без сообщения отброшен: %s", callback.Data)
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	// Подтверждаем получение callback
	b.api.Send(tgbotapi.NewCallback(callback.ID, ""))

	switch {
	case strings.HasPrefix(data, "auth_"):
		b.handleAuthCallback(callback)
	case strings.HasPrefix(data, "onb_"):
		b.handleOnboardingCallback(callback)
	case strings.HasPrefix(data, "sub_"):
		b.handleSubscriptionCallback(callback)
	case strings.HasPrefix(data, "ex_"), data == "workout_finish":
		b.handleWorkoutCallback(callback)
	case strings.HasPrefix(data, "rest_"):
		b.handleRestCallback(callback)
	case strings.HasPrefix(data, "meal_"), data == "water_add":
		b.handleDietCallback(callback)
	case strings.HasPrefix(data, "rem_"):
		b.handleReminderCallback(callback)
	case strings.HasPrefix(data, "progress_"):
		b.handleProgressCallback(callback)
	case strings.HasPrefix(data, "profile_"):
		b.handleProfileCallback(callback)
	case strings.HasPrefix(data, "lang_"):
		b.handleLanguageChange(chatID, callback.Message.MessageID, strings.TrimPrefix(data, "lang_"))
	default:
		log.Printf("Неизвестный callback [chat=%d]: %s", chatID, data)
	}
}

// mainMenuKeyboard — постоянная клавиатура навигации между экранами
func (b *Bot) mainMenuKeyboard(chatID int64) tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(b.t("nav_dashboard", chatID)),
			tgbotapi.NewKeyboardButton(b.t("nav_workout", chatID)),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(b.t("nav_diet", chatID)),
			tgbotapi.NewKeyboardButton(b.t("nav_progress", chatID)),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(b.t("nav_profile", chatID)),
		),
	)
}
