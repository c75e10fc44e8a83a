package bot

import (
	"log"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// userStates хранит состояние текстового ввода (формы) по чатам
var userStates = struct {
	sync.RWMutex
	states map[int64]string
}{states: make(map[int64]string)}

// setState устанавливает состояние ввода
func setState(chatID int64, state string) {
	userStates.Lock()
	userStates.states[chatID] = state
	userStates.Unlock()
}

// getState возвращает состояние ввода
func getState(chatID int64) string {
	userStates.RLock()
	defer userStates.RUnlock()
	return userStates.states[chatID]
}

// clearState сбрасывает состояние ввода
func clearState(chatID int64) {
	userStates.Lock()
	delete(userStates.states, chatID)
	userStates.Unlock()
}

// sendError отправляет пользователю сообщение об ошибке и пишет её в лог
func (b *Bot) sendError(chatID int64, userMessage string, err error) {
	if err != nil {
		log.Printf("Ошибка [chat=%d]: %v", chatID, err)
	}
	msg := tgbotapi.NewMessage(chatID, userMessage)
	if _, sendErr := b.api.Send(msg); sendErr != nil {
		log.Printf("Ошибка отправки сообщения [chat=%d]: %v", chatID, sendErr)
	}
}

// sendMessage отправляет сообщение с логированием ошибки
func (b *Bot) sendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Ошибка отправки сообщения [chat=%d]: %v", chatID, err)
	}
	return err
}

// sendWithKeyboard отправляет сообщение с inline-клавиатурой
func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Ошибка отправки сообщения [chat=%d]: %v", chatID, err)
	}
}

// editMessage редактирует текст и клавиатуру существующего сообщения
func (b *Bot) editMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ReplyMarkup = keyboard
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Ошибка редактирования сообщения [chat=%d]: %v", chatID, err)
	}
}

// deleteMessage удаляет сообщение, ошибки игнорируются
func (b *Bot) deleteMessage(chatID int64, messageID int) {
	b.api.Send(tgbotapi.NewDeleteMessage(chatID, messageID))
}

// safeFloat64 разбирает число с запятой или точкой, при ошибке возвращает 0
func safeFloat64(s string) float64 {
	s = strings.Replace(s, ",", ".", 1)
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// safeInt разбирает целое число, при ошибке возвращает 0
func safeInt(s string) int {
	s = strings.TrimSpace(s)
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// progressBar рисует полосу прогресса из десяти сегментов
func progressBar(percent int) string {
	filled := percent / 10
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", 10-filled)
}
