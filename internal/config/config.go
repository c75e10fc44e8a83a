package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Config содержит конфигурацию приложения
type Config struct {
	BotToken string

	// Gateway (Supabase-совместимый бэкенд: auth + хранилище записей)
	GatewayURL     string // например https://xyz.supabase.co
	GatewayAnonKey string

	// Локальное хранилище настроек (sqlite)
	PrefsPath string

	// Локализация
	LocalesDir string

	// Экспорт xlsx-отчётов
	ExportDir string
}

// Load загружает конфигурацию из переменных окружения или .env файла
func Load() (*Config, error) {
	env, err := loadEnvFile(".env")
	if err != nil {
		env = make(map[string]string)
	}

	getEnv := func(key, defaultValue string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		if value, ok := env[key]; ok && value != "" {
			return value
		}
		return defaultValue
	}

	cfg := &Config{
		BotToken:       getEnv("BOT_TOKEN", ""),
		GatewayURL:     getEnv("GATEWAY_URL", ""),
		GatewayAnonKey: getEnv("GATEWAY_ANON_KEY", ""),
		PrefsPath:      getEnv("PREFS_PATH", "fitprobot.db"),
		LocalesDir:     getEnv("LOCALES_DIR", "locales"),
		ExportDir:      getEnv("EXPORT_DIR", os.TempDir()),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN не задан")
	}
	if cfg.GatewayURL == "" {
		return nil, fmt.Errorf("GATEWAY_URL не задан")
	}
	if cfg.GatewayAnonKey == "" {
		return nil, fmt.Errorf("GATEWAY_ANON_KEY не задан")
	}

	cfg.GatewayURL = strings.TrimRight(cfg.GatewayURL, "/")

	return cfg, nil
}

// loadEnvFile читает .env файл
func loadEnvFile(filename string) (map[string]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	env := make(map[string]string)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		env[key] = value
	}

	return env, scanner.Err()
}
