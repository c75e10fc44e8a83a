package bot

import (
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitprobot/internal/i18n"
	"fitprobot/internal/prefs"
)

// showProfile рисует карточку пользователя и настройки
func (b *Bot) showProfile(chatID int64) {
	state := getAppState(chatID)
	appStates.RLock()
	user := state.User
	sub := state.Subscription
	appStates.RUnlock()

	remindersOn, err := b.prefs.GetBool(chatID, prefs.KeyWaterRemindersEnabled)
	if err != nil {
		log.Printf("Ошибка чтения настройки напоминаний [chat=%d]: %v", chatID, err)
	}

	var sb strings.Builder
	if user != nil {
		sb.WriteString(b.tf("profile_card", chatID, user.Name, user.Email))
		sb.WriteString("\n")
		if user.Goal != "" {
			sb.WriteString(b.tf("profile_goal", chatID, b.t("onb_goal_opt_"+user.Goal, chatID)))
			sb.WriteString("\n")
		}
		if user.DaysPerWeek > 0 {
			sb.WriteString(b.tf("profile_schedule", chatID, user.DaysPerWeek, user.SessionTime))
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")

	if sub != nil && sub.IsActive() {
		sb.WriteString(b.tf("profile_sub_active", chatID, sub.Amount))
	} else {
		sb.WriteString(b.t("profile_sub_inactive", chatID))
	}
	sb.WriteString("\n\n")

	if remindersOn {
		sb.WriteString(b.t("profile_reminders_on", chatID))
		sb.WriteString("\n")
		sb.WriteString(strings.Join(reminderSlots, ", "))
	} else {
		sb.WriteString(b.t("profile_reminders_off", chatID))
	}

	lang := b.getLanguage(chatID)
	reminderBtn := b.t("profile_btn_reminders_on", chatID)
	if remindersOn {
		reminderBtn = b.t("profile_btn_reminders_off", chatID)
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(reminderBtn, "profile_reminders_toggle"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				b.tf("profile_btn_language", chatID, i18n.GetLanguageFlag(lang)+" "+i18n.GetLanguageName(lang)),
				"profile_language",
			),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t("profile_btn_signout", chatID), "profile_signout"),
		),
	)

	b.sendWithKeyboard(chatID, sb.String(), keyboard)
}

func (b *Bot) handleProfileCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	switch callback.Data {
	case "profile_reminders_toggle":
		enabled, _ := b.prefs.GetBool(chatID, prefs.KeyWaterRemindersEnabled)
		if err := b.setRemindersEnabled(chatID, !enabled); err != nil {
			log.Printf("Ошибка переключения напоминаний [chat=%d]: %v", chatID, err)
			return
		}
		b.deleteMessage(chatID, messageID)
		b.showProfile(chatID)

	case "profile_language":
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", "lang_ru"),
				tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", "lang_en"),
			),
		)
		b.editMessage(chatID, messageID, b.t("profile_select_language", chatID), &keyboard)

	case "profile_signout":
		b.deleteMessage(chatID, messageID)
		b.signOut(chatID, true)
	}
}
