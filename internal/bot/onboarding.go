package bot

import (
	"log"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitprobot/internal/models"
)

// Варианты ответов анкеты. Значения совпадают с тем, что хранит бэкенд.
var (
	onboardingGoals     = []string{"lose_weight", "gain_muscle", "maintain"}
	onboardingLevels    = []string{"beginner", "intermediate", "advanced"}
	onboardingDays      = []string{"2", "3", "4", "5", "6"}
	onboardingTimes     = []string{"30", "45", "60", "90"}
	onboardingEquipment = []string{"gym", "dumbbells", "bands", "bodyweight"}
	onboardingStepOrder = []string{"goal", "level", "days", "time", "equipment"}
)

// showOnboarding начинает анкету с первого шага
func (b *Bot) showOnboarding(chatID int64) {
	withState(chatID, func(s *AppState) {
		s.Screen = ScreenOnboarding
		s.Form["onb_step"] = "goal"
		s.Equipment = make(map[string]bool)
	})
	b.sendMessage(chatID, b.t("onb_intro", chatID))
	b.sendOnboardingStep(chatID, 0, "goal")
}

// sendOnboardingStep показывает шаг анкеты. messageID == 0 — новое сообщение.
func (b *Bot) sendOnboardingStep(chatID int64, messageID int, step string) {
	var text string
	var keyboard tgbotapi.InlineKeyboardMarkup

	switch step {
	case "goal":
		text = b.t("onb_goal", chatID)
		keyboard = b.optionsKeyboard(chatID, "onb_goal_", "onb_goal_opt_", onboardingGoals, false)
	case "level":
		text = b.t("onb_level", chatID)
		keyboard = b.optionsKeyboard(chatID, "onb_level_", "onb_level_opt_", onboardingLevels, true)
	case "days":
		text = b.t("onb_days", chatID)
		keyboard = b.numbersKeyboard(chatID, "onb_days_", onboardingDays)
	case "time":
		text = b.t("onb_time", chatID)
		keyboard = b.numbersKeyboard(chatID, "onb_time_", onboardingTimes)
	case "equipment":
		text = b.t("onb_equipment", chatID)
		keyboard = b.equipmentKeyboard(chatID)
	}

	if messageID == 0 {
		b.sendWithKeyboard(chatID, text, keyboard)
	} else {
		b.editMessage(chatID, messageID, text, &keyboard)
	}
}

// optionsKeyboard строит клавиатуру вариантов, по кнопке в строке
func (b *Bot) optionsKeyboard(chatID int64, dataPrefix, labelPrefix string, options []string, withBack bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, opt := range options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(labelPrefix+opt, chatID), dataPrefix+opt),
		))
	}
	if withBack {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t("back", chatID), "onb_back"),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// numbersKeyboard строит клавиатуру числовых вариантов в одну строку
func (b *Bot) numbersKeyboard(chatID int64, dataPrefix string, options []string) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, opt := range options {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(opt, dataPrefix+opt))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t("back", chatID), "onb_back"),
		),
	)
}

// equipmentKeyboard строит мультивыбор инвентаря с отметками
func (b *Bot) equipmentKeyboard(chatID int64) tgbotapi.InlineKeyboardMarkup {
	state := getAppState(chatID)
	appStates.RLock()
	selected := make(map[string]bool, len(state.Equipment))
	for k, v := range state.Equipment {
		selected[k] = v
	}
	appStates.RUnlock()

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, eq := range onboardingEquipment {
		label := b.t("onb_eq_opt_"+eq, chatID)
		if selected[eq] {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "onb_eq_"+eq),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(b.t("back", chatID), "onb_back"),
		tgbotapi.NewInlineKeyboardButtonData(b.t("onb_continue", chatID), "onb_eq_done"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) handleOnboardingCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	data := callback.Data

	switch {
	case data == "onb_back":
		b.onboardingBack(chatID, messageID)

	case strings.HasPrefix(data, "onb_goal_"):
		b.saveOnboardingAnswer(chatID, "goal", strings.TrimPrefix(data, "onb_goal_"))
		b.sendOnboardingStep(chatID, messageID, "level")

	case strings.HasPrefix(data, "onb_level_"):
		b.saveOnboardingAnswer(chatID, "level", strings.TrimPrefix(data, "onb_level_"))
		b.sendOnboardingStep(chatID, messageID, "days")

	case strings.HasPrefix(data, "onb_days_"):
		b.saveOnboardingAnswer(chatID, "days", strings.TrimPrefix(data, "onb_days_"))
		b.sendOnboardingStep(chatID, messageID, "time")

	case strings.HasPrefix(data, "onb_time_"):
		b.saveOnboardingAnswer(chatID, "time", strings.TrimPrefix(data, "onb_time_"))
		b.sendOnboardingStep(chatID, messageID, "equipment")

	case data == "onb_eq_done":
		b.finishOnboarding(chatID, messageID)

	case strings.HasPrefix(data, "onb_eq_"):
		eq := strings.TrimPrefix(data, "onb_eq_")
		withState(chatID, func(s *AppState) {
			s.Equipment[eq] = !s.Equipment[eq]
		})
		b.sendOnboardingStep(chatID, messageID, "equipment")
	}
}

// saveOnboardingAnswer запоминает ответ и переводит шаг вперёд
func (b *Bot) saveOnboardingAnswer(chatID int64, step, value string) {
	withState(chatID, func(s *AppState) {
		s.Form["onb_"+step] = value
		s.Form["onb_step"] = nextOnboardingStep(step)
	})
}

// onboardingBack возвращает анкету на предыдущий шаг
func (b *Bot) onboardingBack(chatID int64, messageID int) {
	var prev string
	withState(chatID, func(s *AppState) {
		prev = prevOnboardingStep(s.Form["onb_step"])
		s.Form["onb_step"] = prev
	})
	b.sendOnboardingStep(chatID, messageID, prev)
}

func nextOnboardingStep(step string) string {
	for i, s := range onboardingStepOrder {
		if s == step && i+1 < len(onboardingStepOrder) {
			return onboardingStepOrder[i+1]
		}
	}
	return step
}

func prevOnboardingStep(step string) string {
	for i, s := range onboardingStepOrder {
		if s == step && i > 0 {
			return onboardingStepOrder[i-1]
		}
	}
	return onboardingStepOrder[0]
}

// buildUserData собирает данные для сохранения поверх уже известных
func (b *Bot) buildUserData(userID, email string, existing *models.UserData) *models.UserData {
	data := &models.UserData{ID: userID, Email: email}
	if existing != nil {
		*data = *existing
		data.ID = userID
		if data.Email == "" {
			data.Email = email
		}
	}
	return data
}

// finishOnboarding сохраняет анкету и заново запускает загрузку
func (b *Bot) finishOnboarding(chatID int64, messageID int) {
	state := getAppState(chatID)

	appStates.RLock()
	session := state.Session
	user := state.User
	form := map[string]string{
		"goal":  state.Form["onb_goal"],
		"level": state.Form["onb_level"],
		"days":  state.Form["onb_days"],
		"time":  state.Form["onb_time"],
	}
	var equipment []string
	for eq, on := range state.Equipment {
		if on {
			equipment = append(equipment, eq)
		}
	}
	appStates.RUnlock()
	sort.Strings(equipment)

	if session == nil {
		b.showAuth(chatID)
		return
	}

	data := b.buildUserData(session.UserID, session.Email, user)
	data.Goal = form["goal"]
	data.Level = form["level"]
	data.DaysPerWeek = safeInt(form["days"])
	data.SessionTime = safeInt(form["time"])
	data.Equipment = equipment

	if err := b.repo.User.SaveOnboarding(session.AccessToken, data); err != nil {
		log.Printf("Ошибка сохранения анкеты [chat=%d]: %v", chatID, err)
		b.sendMessage(chatID, b.t("onb_save_failed", chatID))
		return
	}

	b.deleteMessage(chatID, messageID)
	b.sendMessage(chatID, b.t("onb_done", chatID))
	b.loadUserData(chatID)
}
