package bot

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitprobot/internal/repository"
)

// pixCode — статический код для оплаты переводом.
// Платёжный шлюз не подключён, оплата подтверждается пользователем.
const pixCode = "00020126580014BR.GOV.BCB.PIX0136fitpro-pagamentos-2024-mensalidade520400005303986540525.995802BR5906FitPro6009SAO PAULO62070503***6304A1B2"

// showSubscriptionGate показывает экран выбора способа оплаты
func (b *Bot) showSubscriptionGate(chatID int64) {
	withState(chatID, func(s *AppState) {
		s.Screen = ScreenSubscription
	})

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t("sub_btn_pix", chatID), "sub_pix"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t("sub_btn_card", chatID), "sub_card"),
		),
	)

	text := b.tf("sub_gate", chatID, repository.SubscriptionAmount)
	b.sendWithKeyboard(chatID, text, keyboard)
}

func (b *Bot) handleSubscriptionCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	switch callback.Data {
	case "sub_pix":
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(b.t("sub_btn_paid", chatID), "sub_paid_pix"),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(b.t("back", chatID), "sub_back"),
			),
		)
		text := fmt.Sprintf("%s\n\n`%s`", b.t("sub_pix_instructions", chatID), pixCode)
		edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
		edit.ParseMode = tgbotapi.ModeMarkdown
		edit.ReplyMarkup = &keyboard
		if _, err := b.api.Send(edit); err != nil {
			log.Printf("Ошибка редактирования сообщения [chat=%d]: %v", chatID, err)
		}

	case "sub_card":
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(b.t("sub_btn_paid", chatID), "sub_paid_card"),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(b.t("back", chatID), "sub_back"),
			),
		)
		b.editMessage(chatID, messageID, b.t("sub_card_instructions", chatID), &keyboard)

	case "sub_paid_pix":
		b.confirmPayment(chatID, messageID, "pix")

	case "sub_paid_card":
		b.confirmPayment(chatID, messageID, "card")

	case "sub_back":
		b.deleteMessage(chatID, messageID)
		b.showSubscriptionGate(chatID)
	}
}

// confirmPayment записывает подписку после подтверждения оплаты
func (b *Bot) confirmPayment(chatID int64, messageID int, method string) {
	state := getAppState(chatID)
	appStates.RLock()
	session := state.Session
	appStates.RUnlock()

	if session == nil {
		b.showAuth(chatID)
		return
	}

	sub, err := b.repo.Subscription.Activate(session.AccessToken, session.UserID, method)
	if err != nil {
		log.Printf("Ошибка активации подписки [chat=%d]: %v", chatID, err)
		b.sendMessage(chatID, b.t("sub_activation_failed", chatID))
		return
	}

	withState(chatID, func(s *AppState) {
		s.Subscription = sub
		s.Screen = ScreenDashboard
	})

	b.deleteMessage(chatID, messageID)
	b.sendMessage(chatID, b.t("sub_activated", chatID))
	b.loadDashboardData(chatID)
	b.showDashboard(chatID)
}
