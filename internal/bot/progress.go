package bot

import (
	"fmt"
	"log"
	"os"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitprobot/internal/export"
	"fitprobot/internal/models"
)

// showProgress рисует экран прогресса: вес, цель и последние замеры
func (b *Bot) showProgress(chatID int64) {
	state := getAppState(chatID)
	appStates.RLock()
	session := state.Session
	user := state.User
	appStates.RUnlock()

	if session == nil {
		b.showAuth(chatID)
		return
	}

	entries, err := b.repo.Progress.List(session.AccessToken, session.UserID)
	if err != nil {
		log.Printf("Ошибка загрузки замеров [chat=%d]: %v", chatID, err)
	}

	var sb strings.Builder
	if user != nil && user.Weight > 0 {
		sb.WriteString(b.tf("progress_weight", chatID, user.Weight, user.TargetWeight))
		sb.WriteString("\n\n")
	}

	if len(entries) == 0 {
		sb.WriteString(b.t("progress_no_entries", chatID))
	} else {
		sb.WriteString(b.t("progress_history", chatID))
		sb.WriteString("\n")
		start := 0
		if len(entries) > 5 {
			start = len(entries) - 5
		}
		for _, e := range entries[start:] {
			sb.WriteString(fmt.Sprintf("%s — %.1f кг", e.Date, e.Weight))
			if e.Waist > 0 {
				sb.WriteString(fmt.Sprintf(", талия %.0f см", e.Waist))
			}
			sb.WriteString("\n")
		}
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t("progress_btn_add", chatID), "progress_add"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t("progress_btn_export", chatID), "progress_export"),
		),
	)
	b.sendWithKeyboard(chatID, sb.String(), keyboard)
}

func (b *Bot) handleProgressCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID

	switch callback.Data {
	case "progress_add":
		setState(chatID, "measure_weight")
		b.sendMessage(chatID, b.t("progress_enter_weight", chatID))
	case "progress_export":
		b.exportReport(chatID)
	}
}

// processMeasurementInput ведёт пошаговый ввод замеров.
// Пустые значения (0) допустимы для всех полей, кроме веса.
func (b *Bot) processMeasurementInput(message *tgbotapi.Message, state string) {
	chatID := message.Chat.ID
	text := message.Text

	switch state {
	case "measure_weight":
		weight := safeFloat64(text)
		if err := validateWeight(weight); err != nil {
			b.sendMessage(chatID, err.Error())
			return
		}
		withState(chatID, func(s *AppState) { s.Form["measure_weight"] = text })
		setState(chatID, "measure_chest")
		b.sendMessage(chatID, b.t("progress_enter_chest", chatID))

	case "measure_chest":
		withState(chatID, func(s *AppState) { s.Form["measure_chest"] = text })
		setState(chatID, "measure_arm")
		b.sendMessage(chatID, b.t("progress_enter_arm", chatID))

	case "measure_arm":
		withState(chatID, func(s *AppState) { s.Form["measure_arm"] = text })
		setState(chatID, "measure_waist")
		b.sendMessage(chatID, b.t("progress_enter_waist", chatID))

	case "measure_waist":
		withState(chatID, func(s *AppState) { s.Form["measure_waist"] = text })
		setState(chatID, "measure_thigh")
		b.sendMessage(chatID, b.t("progress_enter_thigh", chatID))

	case "measure_thigh":
		clearState(chatID)
		b.addMeasurement(chatID, safeFloat64(text))
	}
}

// addMeasurement сохраняет замер и обновляет вес в анкете
func (b *Bot) addMeasurement(chatID int64, thigh float64) {
	state := getAppState(chatID)
	appStates.RLock()
	session := state.Session
	entry := models.BodyProgress{
		UserID: sessionUserID(state),
		Weight: safeFloat64(state.Form["measure_weight"]),
		Chest:  safeFloat64(state.Form["measure_chest"]),
		Arm:    safeFloat64(state.Form["measure_arm"]),
		Waist:  safeFloat64(state.Form["measure_waist"]),
		Thigh:  thigh,
		Date:   today(),
	}
	appStates.RUnlock()

	if session == nil {
		b.showAuth(chatID)
		return
	}

	if _, err := b.repo.Progress.Add(session.AccessToken, entry); err != nil {
		log.Printf("Ошибка добавления замера [chat=%d]: %v", chatID, err)
		b.sendMessage(chatID, b.t("progress_add_failed", chatID))
		return
	}

	withState(chatID, func(s *AppState) {
		if s.User != nil {
			s.User.Weight = entry.Weight
		}
		for _, key := range []string{"measure_weight", "measure_chest", "measure_arm", "measure_waist"} {
			delete(s.Form, key)
		}
	})

	b.sendMessage(chatID, b.t("progress_added", chatID))
	b.showProgress(chatID)
}

// exportReport собирает xlsx-отчёт и отправляет его документом
func (b *Bot) exportReport(chatID int64) {
	state := getAppState(chatID)
	appStates.RLock()
	session := state.Session
	user := state.User
	workout := cloneWorkout(state.Workout)
	meals := append([]models.Meal(nil), state.Meals...)
	appStates.RUnlock()

	if session == nil {
		b.showAuth(chatID)
		return
	}

	entries, err := b.repo.Progress.List(session.AccessToken, session.UserID)
	if err != nil {
		log.Printf("Ошибка загрузки замеров для отчёта [chat=%d]: %v", chatID, err)
	}

	report := &export.Report{
		Progress: entries,
		Workout:  workout,
		Meals:    meals,
	}
	if user != nil {
		report.UserName = user.Name
	}

	path, err := export.WriteReport(b.config.ExportDir, report)
	if err != nil {
		log.Printf("Ошибка создания отчёта [chat=%d]: %v", chatID, err)
		b.sendMessage(chatID, b.t("progress_export_failed", chatID))
		return
	}
	defer os.Remove(path)

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = b.t("progress_export_caption", chatID)
	if _, err := b.api.Send(doc); err != nil {
		log.Printf("Ошибка отправки отчёта [chat=%d]: %v", chatID, err)
	}
}
