// Package prefs — локальное хранилище настроек на sqlite.
// Переживает перезапуск бота: флаг напоминаний, язык и токены сессии.
package prefs

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"
)

// Стабильные ключи настроек
const (
	KeyWaterRemindersEnabled = "water-reminders-enabled"
	KeyLanguage              = "language"
	KeyRefreshToken          = "refresh-token"
)

// Store — хранилище настроек, по одной записи на (chat_id, key)
type Store struct {
	db *sql.DB
}

// Open открывает (и при необходимости создаёт) файл хранилища
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия хранилища настроек: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ошибка подключения к хранилищу настроек: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS prefs (
			chat_id INTEGER NOT NULL,
			key     TEXT NOT NULL,
			value   TEXT NOT NULL,
			PRIMARY KEY (chat_id, key)
		)`)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания таблицы настроек: %w", err)
	}

	return &Store{db: db}, nil
}

// Close закрывает хранилище
func (s *Store) Close() error {
	return s.db.Close()
}

// Get возвращает значение настройки; пустая строка, если не задана
func (s *Store) Get(chatID int64, key string) (string, error) {
	var value string
	err := s.db.QueryRow(
		"SELECT value FROM prefs WHERE chat_id = ? AND key = ?",
		chatID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("ошибка чтения настройки %s: %w", key, err)
	}
	return value, nil
}

// Set сохраняет значение настройки
func (s *Store) Set(chatID int64, key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO prefs (chat_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT (chat_id, key) DO UPDATE SET value = excluded.value`,
		chatID, key, value,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения настройки %s: %w", key, err)
	}
	return nil
}

// Delete удаляет настройку
func (s *Store) Delete(chatID int64, key string) error {
	_, err := s.db.Exec("DELETE FROM prefs WHERE chat_id = ? AND key = ?", chatID, key)
	if err != nil {
		return fmt.Errorf("ошибка удаления настройки %s: %w", key, err)
	}
	return nil
}

// GetBool возвращает булеву настройку (по умолчанию false)
func (s *Store) GetBool(chatID int64, key string) (bool, error) {
	value, err := s.Get(chatID, key)
	if err != nil || value == "" {
		return false, err
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, nil
	}
	return parsed, nil
}

// SetBool сохраняет булеву настройку
func (s *Store) SetBool(chatID int64, key string, value bool) error {
	return s.Set(chatID, key, strconv.FormatBool(value))
}

// Values возвращает значения настройки по всем чатам, где она задана
func (s *Store) Values(key string) (map[int64]string, error) {
	rows, err := s.db.Query(
		"SELECT chat_id, value FROM prefs WHERE key = ? AND value != ''", key,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки настройки %s: %w", key, err)
	}
	defer rows.Close()

	values := make(map[int64]string)
	for rows.Next() {
		var chatID int64
		var value string
		if err := rows.Scan(&chatID, &value); err != nil {
			continue
		}
		values[chatID] = value
	}
	return values, rows.Err()
}

// ChatsWithFlag возвращает чаты, у которых булева настройка включена
func (s *Store) ChatsWithFlag(key string) ([]int64, error) {
	rows, err := s.db.Query(
		"SELECT chat_id FROM prefs WHERE key = ? AND value = 'true'", key,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки чатов по настройке %s: %w", key, err)
	}
	defer rows.Close()

	var chats []int64
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			continue
		}
		chats = append(chats, chatID)
	}
	return chats, rows.Err()
}
