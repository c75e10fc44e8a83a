package bot

import (
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitprobot/internal/models"
)

// showWorkout рисует экран тренировки со списком упражнений
func (b *Bot) showWorkout(chatID int64) {
	state := getAppState(chatID)
	appStates.RLock()
	workout := cloneWorkout(state.Workout)
	appStates.RUnlock()

	if workout == nil {
		msg := tgbotapi.NewMessage(chatID, b.t("workout_none", chatID))
		msg.ReplyMarkup = b.mainMenuKeyboard(chatID)
		if _, err := b.api.Send(msg); err != nil {
			log.Printf("Ошибка отправки сообщения [chat=%d]: %v", chatID, err)
		}
		return
	}

	text, keyboard := b.renderWorkout(chatID, workout)
	b.sendWithKeyboard(chatID, text, keyboard)
}

// renderWorkout собирает текст и клавиатуру экрана тренировки
func (b *Bot) renderWorkout(chatID int64, workout *models.Workout) (string, tgbotapi.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(b.tf("workout_title", chatID, workout.Name))
	sb.WriteString("\n\n")

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, ex := range workout.Exercises {
		mark := "⬜"
		if ex.Completed {
			mark = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s — %d×%s", mark, i+1, ex.Name, ex.Sets, ex.Reps))
		if ex.Weight > 0 {
			sb.WriteString(fmt.Sprintf(", %.1f кг", ex.Weight))
		}
		if ex.RPE > 0 {
			sb.WriteString(fmt.Sprintf(", RPE %d", ex.RPE))
		}
		sb.WriteString("\n")

		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %d", mark, i+1), fmt.Sprintf("ex_toggle_%d", i)),
			tgbotapi.NewInlineKeyboardButtonData(b.t("workout_btn_weight", chatID), fmt.Sprintf("ex_weight_%d", i)),
			tgbotapi.NewInlineKeyboardButtonData("RPE", fmt.Sprintf("ex_rpe_%d", i)),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("⏱ %dс", ex.Rest), fmt.Sprintf("ex_rest_%d", i)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(b.t("workout_btn_finish", chatID), "workout_finish"),
	))

	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) handleWorkoutCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	data := callback.Data

	switch {
	case data == "workout_finish":
		b.finishWorkout(chatID, messageID)

	case strings.HasPrefix(data, "ex_toggle_"):
		// Данные callback приходят от клиента как есть, индексу нельзя верить
		idx := safeInt(strings.TrimPrefix(data, "ex_toggle_"))
		var completed, ok bool
		withState(chatID, func(s *AppState) {
			if s.Workout != nil && idx >= 0 && idx < len(s.Workout.Exercises) {
				completed = !s.Workout.Exercises[idx].Completed
				ok = true
			}
		})
		if !ok {
			return
		}
		b.updateExercise(chatID, idx, "completed", completed)
		b.redrawWorkout(chatID, messageID)

	case strings.HasPrefix(data, "ex_weight_"):
		idx := strings.TrimPrefix(data, "ex_weight_")
		setState(chatID, "exercise_weight_"+idx)
		b.sendMessage(chatID, b.t("workout_enter_weight", chatID))

	case strings.HasPrefix(data, "ex_rpe_"):
		idx := strings.TrimPrefix(data, "ex_rpe_")
		setState(chatID, "exercise_rpe_"+idx)
		b.sendMessage(chatID, b.t("workout_enter_rpe", chatID))

	case strings.HasPrefix(data, "ex_rest_"):
		idx := safeInt(strings.TrimPrefix(data, "ex_rest_"))
		b.startRest(chatID, idx)
	}
}

// processExerciseInput обрабатывает ввод веса и RPE
func (b *Bot) processExerciseInput(message *tgbotapi.Message, state string) {
	chatID := message.Chat.ID
	text := message.Text

	switch {
	case strings.HasPrefix(state, "exercise_weight_"):
		idx := safeInt(strings.TrimPrefix(state, "exercise_weight_"))
		weight := safeFloat64(text)
		if err := validateWeight(weight); err != nil {
			b.sendMessage(chatID, err.Error())
			return
		}
		clearState(chatID)
		b.updateExercise(chatID, idx, "weight", weight)
		b.sendMessage(chatID, b.t("workout_saved", chatID))
		b.showWorkout(chatID)

	case strings.HasPrefix(state, "exercise_rpe_"):
		idx := safeInt(strings.TrimPrefix(state, "exercise_rpe_"))
		rpe := safeInt(text)
		if err := validateRPE(rpe); err != nil {
			b.sendMessage(chatID, err.Error())
			return
		}
		clearState(chatID)
		b.updateExercise(chatID, idx, "rpe", rpe)
		b.sendMessage(chatID, b.t("workout_saved", chatID))
		b.showWorkout(chatID)
	}
}

// updateExercise меняет одно поле упражнения: сначала локально,
// затем асинхронно на бэкенде, если у упражнения есть id.
// Подтверждения не ждём, при ошибке локальное значение остаётся.
func (b *Bot) updateExercise(chatID int64, index int, field string, value interface{}) {
	var exerciseID string
	var accessToken string

	withState(chatID, func(s *AppState) {
		if s.Workout == nil || index < 0 || index >= len(s.Workout.Exercises) {
			return
		}
		ex := &s.Workout.Exercises[index]
		switch field {
		case "completed":
			ex.Completed = value.(bool)
		case "weight":
			ex.Weight = value.(float64)
		case "rpe":
			ex.RPE = value.(int)
		}
		exerciseID = ex.ID
		if s.Session != nil {
			accessToken = s.Session.AccessToken
		}
	})

	if exerciseID == "" || accessToken == "" {
		return
	}
	go func() {
		if err := b.repo.Workout.UpdateExercise(accessToken, exerciseID, field, value); err != nil {
			log.Printf("Ошибка синхронизации упражнения [chat=%d]: %v", chatID, err)
		}
	}()
}

// redrawWorkout перерисовывает сообщение тренировки после изменения
func (b *Bot) redrawWorkout(chatID int64, messageID int) {
	state := getAppState(chatID)
	appStates.RLock()
	workout := cloneWorkout(state.Workout)
	appStates.RUnlock()
	if workout == nil {
		return
	}

	text, keyboard := b.renderWorkout(chatID, workout)
	b.editMessage(chatID, messageID, text, &keyboard)
}

// startRest запускает таймер отдыха после упражнения.
// Новый запуск заменяет предыдущий отсчёт.
func (b *Bot) startRest(chatID int64, index int) {
	var seconds int
	var timer *RestTimer

	withState(chatID, func(s *AppState) {
		if s.Workout == nil || index < 0 || index >= len(s.Workout.Exercises) {
			return
		}
		seconds = s.Workout.Exercises[index].Rest
		if seconds <= 0 {
			return
		}
		if s.RestTimer != nil {
			s.RestTimer.Cancel()
		}
		timer = NewRestTimer(seconds)
		s.RestTimer = timer
	})
	if timer == nil {
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t("workout_btn_rest_cancel", chatID), "rest_cancel"),
		),
	)
	msg := tgbotapi.NewMessage(chatID, b.tf("workout_rest_running", chatID, seconds))
	msg.ReplyMarkup = keyboard
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Ошибка отправки сообщения [chat=%d]: %v", chatID, err)
		return
	}

	go b.runRestTimer(chatID, sent.MessageID, timer, keyboard)
}

// runRestTimer тикает раз в секунду до нуля или отмены.
// Сообщение обновляется раз в пять секунд из-за лимитов Telegram.
func (b *Bot) runRestTimer(chatID int64, messageID int, timer *RestTimer, keyboard tgbotapi.InlineKeyboardMarkup) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timer.Done():
			b.editMessage(chatID, messageID, b.t("workout_rest_done", chatID), nil)
			return
		case <-ticker.C:
			if timer.Tick() {
				b.editMessage(chatID, messageID, b.t("workout_rest_done", chatID), nil)
				return
			}
			remaining := timer.Remaining()
			if remaining%5 == 0 {
				b.editMessage(chatID, messageID, b.tf("workout_rest_running", chatID, remaining), &keyboard)
			}
		}
	}
}

func (b *Bot) handleRestCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID

	if callback.Data != "rest_cancel" {
		return
	}
	withState(chatID, func(s *AppState) {
		if s.RestTimer != nil {
			s.RestTimer.Cancel()
		}
	})
	b.editMessage(chatID, callback.Message.MessageID, b.t("workout_rest_cancelled", chatID), nil)
}

// finishWorkout помечает тренировку завершённой и наращивает серию
func (b *Bot) finishWorkout(chatID int64, messageID int) {
	state := getAppState(chatID)
	appStates.RLock()
	session := state.Session
	workout := state.Workout
	user := state.User
	appStates.RUnlock()

	if session == nil || workout == nil || workout.ID == "" {
		return
	}

	if err := b.repo.Workout.CompleteWorkout(session.AccessToken, workout.ID); err != nil {
		log.Printf("Ошибка завершения тренировки [chat=%d]: %v", chatID, err)
		b.sendMessage(chatID, b.t("workout_finish_failed", chatID))
		return
	}

	streak := 1
	if user != nil {
		streak = user.Streak + 1
	}
	if err := b.repo.User.UpdateStreak(session.AccessToken, session.UserID, streak); err != nil {
		log.Printf("Ошибка обновления серии [chat=%d]: %v", chatID, err)
	}

	withState(chatID, func(s *AppState) {
		if s.RestTimer != nil {
			s.RestTimer.Cancel()
		}
		s.Workout = nil
		if s.User != nil {
			s.User.Streak = streak
		}
		s.Screen = ScreenDashboard
	})

	b.deleteMessage(chatID, messageID)
	b.sendMessage(chatID, b.tf("workout_finished", chatID, streak))
	b.loadDashboardData(chatID)
	b.showDashboard(chatID)
}

// cloneWorkout копирует тренировку для чтения вне блокировки
func cloneWorkout(w *models.Workout) *models.Workout {
	if w == nil {
		return nil
	}
	copied := *w
	copied.Exercises = append([]models.Exercise(nil), w.Exercises...)
	return &copied
}
