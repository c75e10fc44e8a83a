package bot

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitprobot/internal/nutrition"
)

// showDashboard рисует главный экран: приветствие, калории, вода,
// макроэлементы и карточка тренировки на сегодня
func (b *Bot) showDashboard(chatID int64) {
	state := getAppState(chatID)

	appStates.RLock()
	user := state.User
	macros := state.Macros
	water := state.Water
	workout := state.Workout
	appStates.RUnlock()

	var sb strings.Builder

	name := ""
	streak := 0
	if user != nil {
		name = user.Name
		streak = user.Streak
	}
	sb.WriteString(b.tf("dash_greeting", chatID, name))
	sb.WriteString("\n")
	if streak > 0 {
		sb.WriteString(b.tf("dash_streak", chatID, streak))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(b.tf("dash_calories", chatID,
		macros.Calories.Consumed, macros.Calories.Target))
	sb.WriteString("\n")
	sb.WriteString(progressBar(macros.Calories.Percent()))
	sb.WriteString("\n\n")

	if water != nil {
		sb.WriteString(b.tf("dash_water", chatID, water.Glasses, water.Target))
		sb.WriteString("\n\n")
	}

	sb.WriteString(macroLine(b.t("dash_protein", chatID), macros.Protein))
	sb.WriteString(macroLine(b.t("dash_carbs", chatID), macros.Carbs))
	sb.WriteString(macroLine(b.t("dash_fat", chatID), macros.Fat))
	sb.WriteString("\n")

	if workout != nil {
		done := 0
		for _, ex := range workout.Exercises {
			if ex.Completed {
				done++
			}
		}
		sb.WriteString(b.tf("dash_workout", chatID, workout.Name, done, len(workout.Exercises)))
	} else {
		sb.WriteString(b.t("dash_no_workout", chatID))
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ReplyMarkup = b.mainMenuKeyboard(chatID)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Ошибка отправки сообщения [chat=%d]: %v", chatID, err)
	}
}

// macroLine форматирует строку макроэлемента с прогрессом
func macroLine(label string, m nutrition.MacroProgress) string {
	return fmt.Sprintf("%s: %.0f/%.0f г %s\n", label, m.Consumed, m.Target, progressBar(m.Percent()))
}
