package main

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitprobot/clients/gateway"
	"fitprobot/internal/bot"
	"fitprobot/internal/config"
	"fitprobot/internal/i18n"
	"fitprobot/internal/prefs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	if err := i18n.Load(cfg.LocalesDir); err != nil {
		log.Fatalf("Ошибка загрузки локализации: %v", err)
	}
	i18n.StartWatching(cfg.LocalesDir)

	store, err := prefs.Open(cfg.PrefsPath)
	if err != nil {
		log.Fatalf("Ошибка открытия хранилища настроек: %v", err)
	}
	defer store.Close()

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("Ошибка подключения к Telegram: %v", err)
	}
	log.Printf("Бот запущен: @%s", api.Self.UserName)

	gw := gateway.NewClient(cfg.GatewayURL, cfg.GatewayAnonKey)

	b := bot.New(api, gw, store, cfg)
	b.StartReminderScheduler()

	if err := b.Start(); err != nil {
		log.Fatal(err)
	}
}
