package i18n

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Language представляет поддерживаемый язык
type Language string

const (
	LangRussian Language = "ru"
	LangEnglish Language = "en"
	DefaultLang Language = LangRussian
)

// translations хранит все переводы
var translations = struct {
	sync.RWMutex
	data map[Language]map[string]string
}{data: make(map[Language]map[string]string)}

// Load загружает переводы из файлов локализации
func Load(localesDir string) error {
	languages := []Language{LangRussian, LangEnglish}

	loaded := make(map[Language]map[string]string)
	for _, lang := range languages {
		filePath := filepath.Join(localesDir, string(lang)+".json")
		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("ошибка чтения файла локализации %s: %w", filePath, err)
		}

		var langData map[string]string
		if err := json.Unmarshal(data, &langData); err != nil {
			return fmt.Errorf("ошибка парсинга файла локализации %s: %w", filePath, err)
		}

		loaded[lang] = langData
		log.Printf("Загружена локализация: %s (%d ключей)", lang, len(langData))
	}

	translations.Lock()
	translations.data = loaded
	translations.Unlock()

	return nil
}

// T возвращает перевод для указанного ключа и языка
func T(key string, lang Language) string {
	translations.RLock()
	defer translations.RUnlock()

	if langData, ok := translations.data[lang]; ok {
		if text, ok := langData[key]; ok {
			return text
		}
	}

	// Fallback на русский
	if lang != DefaultLang {
		if langData, ok := translations.data[DefaultLang]; ok {
			if text, ok := langData[key]; ok {
				return text
			}
		}
	}

	log.Printf("Перевод не найден: key=%s, lang=%s", key, lang)
	return key
}

// Tf возвращает форматированный перевод
func Tf(key string, lang Language, args ...interface{}) string {
	template := T(key, lang)
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}

// ParseLanguage преобразует строку в Language
func ParseLanguage(lang string) Language {
	switch Language(strings.ToLower(lang)) {
	case LangEnglish:
		return LangEnglish
	default:
		return LangRussian
	}
}

// GetLanguageName возвращает название языка на этом языке
func GetLanguageName(lang Language) string {
	switch lang {
	case LangEnglish:
		return "English"
	default:
		return "Русский"
	}
}

// GetLanguageFlag возвращает флаг для языка
func GetLanguageFlag(lang Language) string {
	switch lang {
	case LangEnglish:
		return "🇬🇧"
	default:
		return "🇷🇺"
	}
}
