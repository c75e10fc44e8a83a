package bot

import (
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron"

	"fitprobot/internal/prefs"
)

// reminderSlots — расписание напоминаний о воде
var reminderSlots = []string{
	"08:00", "10:00", "12:00", "14:00",
	"16:00", "18:00", "20:00", "22:00",
}

// StartReminderScheduler запускает поминутную проверку расписания
func (b *Bot) StartReminderScheduler() {
	c := cron.New()
	if err := c.AddFunc("@every 1m", b.reminderTick); err != nil {
		log.Printf("Ошибка запуска планировщика напоминаний: %v", err)
		return
	}
	c.Start()
	log.Println("Планировщик напоминаний о воде запущен")
}

// reminderTick проверяет, попала ли текущая минута в слот,
// и рассылает напоминания всем чатам с включённой настройкой
func (b *Bot) reminderTick() {
	key, due := reminderDue(time.Now())
	if !due {
		return
	}

	chats, err := b.prefs.ChatsWithFlag(prefs.KeyWaterRemindersEnabled)
	if err != nil {
		log.Printf("Ошибка выборки чатов для напоминаний: %v", err)
		return
	}

	for _, chatID := range chats {
		if !b.sessionExists(chatID) {
			continue
		}
		if !markReminderFired(chatID, key) {
			continue
		}
		b.sendWaterReminder(chatID)
	}
}

// reminderDue сообщает, совпадает ли момент времени со слотом.
// Ключ "H:M" используется для защиты от повторной отправки в ту же минуту.
func reminderDue(now time.Time) (string, bool) {
	current := now.Format("15:04")
	for _, slot := range reminderSlots {
		if slot == current {
			return current, true
		}
	}
	return "", false
}

// markReminderFired отмечает отправку напоминания за минуту.
// Возвращает false, если за эту минуту напоминание уже ушло.
func markReminderFired(chatID int64, key string) bool {
	state := getAppState(chatID)
	appStates.Lock()
	defer appStates.Unlock()

	if state.LastReminder == key {
		return false
	}
	state.LastReminder = key
	return true
}

// sessionExists проверяет наличие живой сессии у чата
func (b *Bot) sessionExists(chatID int64) bool {
	state := getAppState(chatID)
	appStates.RLock()
	defer appStates.RUnlock()
	return state.Session != nil
}

// sendWaterReminder отправляет напоминание с прогрессом за день
func (b *Bot) sendWaterReminder(chatID int64) {
	state := getAppState(chatID)
	appStates.RLock()
	glasses, target := 0, 0
	if state.Water != nil {
		glasses = state.Water.Glasses
		target = state.Water.Target
	}
	appStates.RUnlock()

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t("reminder_btn_drank", chatID), "rem_drink"),
			tgbotapi.NewInlineKeyboardButtonData(b.t("reminder_btn_later", chatID), "rem_later"),
		),
	)

	text := b.t("reminder_water", chatID)
	if target > 0 {
		text = b.tf("reminder_water_progress", chatID, glasses, target)
	}
	b.sendWithKeyboard(chatID, text, keyboard)
	log.Printf("Напоминание о воде отправлено [chat=%d]", chatID)
}

func (b *Bot) handleReminderCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	switch callback.Data {
	case "rem_drink":
		b.addWaterGlass(chatID)
		state := getAppState(chatID)
		appStates.RLock()
		glasses, target := 0, 0
		if state.Water != nil {
			glasses = state.Water.Glasses
			target = state.Water.Target
		}
		appStates.RUnlock()
		b.editMessage(chatID, messageID, b.tf("reminder_drank", chatID, glasses, target), nil)

	case "rem_later":
		// Отложить — просто убрать напоминание
		b.deleteMessage(chatID, messageID)
	}
}

// setRemindersEnabled включает или выключает напоминания для чата.
// Отметка последней отправки не сбрасывается.
func (b *Bot) setRemindersEnabled(chatID int64, enabled bool) error {
	return b.prefs.SetBool(chatID, prefs.KeyWaterRemindersEnabled, enabled)
}
