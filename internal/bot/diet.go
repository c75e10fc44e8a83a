package bot

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitprobot/internal/models"
	"fitprobot/internal/nutrition"
)

// showDiet рисует экран питания: итоги дня, список приёмов пищи и вода
func (b *Bot) showDiet(chatID int64) {
	state := getAppState(chatID)
	appStates.RLock()
	meals := append([]models.Meal(nil), state.Meals...)
	macros := state.Macros
	water := state.Water
	appStates.RUnlock()

	var sb strings.Builder
	sb.WriteString(b.tf("diet_totals", chatID,
		macros.Calories.Consumed, macros.Calories.Target,
		macros.Protein.Consumed, macros.Carbs.Consumed, macros.Fat.Consumed))
	sb.WriteString("\n\n")

	var rows [][]tgbotapi.InlineKeyboardButton
	if len(meals) == 0 {
		sb.WriteString(b.t("diet_no_meals", chatID))
		sb.WriteString("\n")
	}
	for i, meal := range meals {
		mark := "⬜"
		if meal.Completed {
			mark = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s %s — %.0f ккал (Б %.0f / У %.0f / Ж %.0f)\n",
			mark, meal.Name, meal.Calories, meal.Protein, meal.Carbs, meal.Fat))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s %s", mark, meal.Name),
				fmt.Sprintf("meal_toggle_%d", i),
			),
		))
	}

	if water != nil {
		sb.WriteString("\n")
		sb.WriteString(b.tf("diet_water", chatID, water.Glasses, water.Target))
		sb.WriteString("\n")
		empty := water.Target - water.Glasses
		if empty < 0 {
			empty = 0
		}
		sb.WriteString(strings.Repeat("💧", water.Glasses) + strings.Repeat("○", empty))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(b.t("diet_btn_add_meal", chatID), "meal_add"),
		tgbotapi.NewInlineKeyboardButtonData(b.t("diet_btn_add_water", chatID), "water_add"),
	))

	b.sendWithKeyboard(chatID, sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) handleDietCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	data := callback.Data

	switch {
	case data == "water_add":
		b.addWaterGlass(chatID)
		b.deleteMessage(chatID, messageID)
		b.showDiet(chatID)

	case data == "meal_add":
		setState(chatID, "meal_name")
		b.sendMessage(chatID, b.t("diet_enter_meal_name", chatID))

	case strings.HasPrefix(data, "meal_toggle_"):
		idx := safeInt(strings.TrimPrefix(data, "meal_toggle_"))
		b.toggleMeal(chatID, idx)
		b.deleteMessage(chatID, messageID)
		b.showDiet(chatID)
	}
}

// toggleMeal отмечает приём пищи локально и асинхронно на бэкенде
func (b *Bot) toggleMeal(chatID int64, index int) {
	var mealID string
	var completed bool
	var accessToken string

	withState(chatID, func(s *AppState) {
		if index < 0 || index >= len(s.Meals) {
			return
		}
		s.Meals[index].Completed = !s.Meals[index].Completed
		mealID = s.Meals[index].ID
		completed = s.Meals[index].Completed
		if s.Session != nil {
			accessToken = s.Session.AccessToken
		}
	})

	if mealID == "" || accessToken == "" {
		return
	}
	go func() {
		if err := b.repo.Meal.SetCompleted(accessToken, mealID, completed); err != nil {
			log.Printf("Ошибка отметки приёма пищи [chat=%d]: %v", chatID, err)
		}
	}()
}

// processMealInput ведёт пошаговое добавление приёма пищи
func (b *Bot) processMealInput(message *tgbotapi.Message, state string) {
	chatID := message.Chat.ID
	text := message.Text

	switch state {
	case "meal_name":
		if err := validateMealName(text); err != nil {
			b.sendMessage(chatID, err.Error())
			return
		}
		withState(chatID, func(s *AppState) { s.Form["meal_name"] = strings.TrimSpace(text) })
		setState(chatID, "meal_calories")
		b.sendMessage(chatID, b.t("diet_enter_calories", chatID))

	case "meal_calories":
		calories := safeFloat64(text)
		if err := validateCalories(calories); err != nil {
			b.sendMessage(chatID, err.Error())
			return
		}
		withState(chatID, func(s *AppState) { s.Form["meal_calories"] = text })
		setState(chatID, "meal_protein")
		b.sendMessage(chatID, b.t("diet_enter_protein", chatID))

	case "meal_protein":
		if err := validateMacro("protein", safeFloat64(text)); err != nil {
			b.sendMessage(chatID, err.Error())
			return
		}
		withState(chatID, func(s *AppState) { s.Form["meal_protein"] = text })
		setState(chatID, "meal_carbs")
		b.sendMessage(chatID, b.t("diet_enter_carbs", chatID))

	case "meal_carbs":
		if err := validateMacro("carbs", safeFloat64(text)); err != nil {
			b.sendMessage(chatID, err.Error())
			return
		}
		withState(chatID, func(s *AppState) { s.Form["meal_carbs"] = text })
		setState(chatID, "meal_fat")
		b.sendMessage(chatID, b.t("diet_enter_fat", chatID))

	case "meal_fat":
		if err := validateMacro("fat", safeFloat64(text)); err != nil {
			b.sendMessage(chatID, err.Error())
			return
		}
		clearState(chatID)
		b.addMeal(chatID, safeFloat64(text))
	}
}

// addMeal сохраняет приём пищи и пересчитывает итоги дня
func (b *Bot) addMeal(chatID int64, fat float64) {
	state := getAppState(chatID)
	appStates.RLock()
	session := state.Session
	meal := models.Meal{
		UserID:   sessionUserID(state),
		Name:     state.Form["meal_name"],
		Calories: safeFloat64(state.Form["meal_calories"]),
		Protein:  safeFloat64(state.Form["meal_protein"]),
		Carbs:    safeFloat64(state.Form["meal_carbs"]),
		Fat:      fat,
		Date:     today(),
	}
	appStates.RUnlock()

	if session == nil {
		b.showAuth(chatID)
		return
	}

	saved, err := b.repo.Meal.Add(session.AccessToken, meal)
	if err != nil {
		log.Printf("Ошибка добавления приёма пищи [chat=%d]: %v", chatID, err)
		b.sendMessage(chatID, b.t("diet_meal_add_failed", chatID))
		return
	}

	withState(chatID, func(s *AppState) {
		s.Meals = append(s.Meals, *saved)
		s.Macros = nutrition.Aggregate(s.Meals)
		delete(s.Form, "meal_name")
		delete(s.Form, "meal_calories")
		delete(s.Form, "meal_protein")
		delete(s.Form, "meal_carbs")
	})

	b.sendMessage(chatID, b.tf("diet_meal_added", chatID, saved.Name))
	b.showDiet(chatID)
}

// addWaterGlass добавляет стакан воды: сначала локально с отсечкой по норме,
// затем асинхронный upsert. Откатов при ошибке нет, расхождение уйдёт
// при следующей загрузке.
func (b *Bot) addWaterGlass(chatID int64) {
	var intake models.WaterIntake
	var accessToken string
	var changed bool

	withState(chatID, func(s *AppState) {
		if s.Water == nil || s.Session == nil {
			return
		}
		if s.Water.Glasses >= s.Water.Target {
			return
		}
		s.Water.Glasses++
		intake = *s.Water
		accessToken = s.Session.AccessToken
		changed = true
	})

	if !changed {
		return
	}
	go func() {
		if err := b.repo.Water.Save(accessToken, intake); err != nil {
			log.Printf("Ошибка сохранения воды [chat=%d]: %v", chatID, err)
		}
	}()
}

// sessionUserID возвращает id владельца сессии; вызывать под блокировкой
func sessionUserID(s *AppState) string {
	if s.Session == nil {
		return ""
	}
	return s.Session.UserID
}
