package bot

import (
	"log"
	"sync"

	"fitprobot/internal/i18n"
	"fitprobot/internal/prefs"
)

// langCache кэширует язык пользователей
var langCache = struct {
	sync.RWMutex
	cache map[int64]i18n.Language
}{cache: make(map[int64]i18n.Language)}

// getLanguage возвращает язык пользователя (с кэшированием)
func (b *Bot) getLanguage(chatID int64) i18n.Language {
	langCache.RLock()
	if lang, ok := langCache.cache[chatID]; ok {
		langCache.RUnlock()
		return lang
	}
	langCache.RUnlock()

	langStr, err := b.prefs.Get(chatID, prefs.KeyLanguage)
	if err != nil || langStr == "" {
		return i18n.DefaultLang
	}

	lang := i18n.ParseLanguage(langStr)

	langCache.Lock()
	langCache.cache[chatID] = lang
	langCache.Unlock()

	return lang
}

// setLanguage устанавливает язык пользователя
func (b *Bot) setLanguage(chatID int64, lang i18n.Language) error {
	if err := b.prefs.Set(chatID, prefs.KeyLanguage, string(lang)); err != nil {
		return err
	}

	langCache.Lock()
	langCache.cache[chatID] = lang
	langCache.Unlock()

	return nil
}

// clearLanguageCache очищает кэш языка для пользователя
func clearLanguageCache(chatID int64) {
	langCache.Lock()
	delete(langCache.cache, chatID)
	langCache.Unlock()
}

// t возвращает перевод для пользователя
func (b *Bot) t(key string, chatID int64) string {
	return i18n.T(key, b.getLanguage(chatID))
}

// tf возвращает форматированный перевод для пользователя
func (b *Bot) tf(key string, chatID int64, args ...interface{}) string {
	return i18n.Tf(key, b.getLanguage(chatID), args...)
}

// handleLanguageChange меняет язык пользователя и перерисовывает профиль
func (b *Bot) handleLanguageChange(chatID int64, messageID int, langCode string) {
	lang := i18n.ParseLanguage(langCode)

	if err := b.setLanguage(chatID, lang); err != nil {
		log.Printf("Ошибка установки языка: %v", err)
		return
	}

	b.deleteMessage(chatID, messageID)
	b.sendMessage(chatID, b.tf("settings_language_changed", chatID, i18n.GetLanguageName(lang)))
	b.showProfile(chatID)
}
