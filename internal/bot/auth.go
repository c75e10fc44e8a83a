package bot

import (
	"errors"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitprobot/clients/gateway"
	"fitprobot/internal/prefs"
)

// showAuth показывает стартовый экран входа
func (b *Bot) showAuth(chatID int64) {
	withState(chatID, func(s *AppState) {
		s.Screen = ScreenAuth
	})

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t("auth_btn_login", chatID), "auth_login"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t("auth_btn_signup", chatID), "auth_signup"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, b.t("auth_welcome", chatID))
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Ошибка отправки сообщения [chat=%d]: %v", chatID, err)
	}
	b.sendWithKeyboard(chatID, b.t("auth_choose", chatID), keyboard)
}

func (b *Bot) handleAuthCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID

	switch callback.Data {
	case "auth_login":
		setState(chatID, "auth_login_email")
		b.sendMessage(chatID, b.t("auth_enter_email", chatID))
	case "auth_signup":
		setState(chatID, "auth_signup_name")
		b.sendMessage(chatID, b.t("auth_enter_name", chatID))
	}
}

// processAuthInput ведёт пошаговый ввод форм входа и регистрации
func (b *Bot) processAuthInput(message *tgbotapi.Message, state string) {
	chatID := message.Chat.ID
	text := message.Text

	switch state {
	case "auth_login_email":
		if err := validateEmail(text); err != nil {
			b.sendMessage(chatID, err.Error())
			return
		}
		withState(chatID, func(s *AppState) { s.Form["email"] = text })
		setState(chatID, "auth_login_password")
		b.sendMessage(chatID, b.t("auth_enter_password", chatID))

	case "auth_login_password":
		app := getAppState(chatID)
		appStates.RLock()
		email := app.Form["email"]
		appStates.RUnlock()
		b.signIn(chatID, email, text)

	case "auth_signup_name":
		if err := validateName(text); err != nil {
			b.sendMessage(chatID, err.Error())
			return
		}
		withState(chatID, func(s *AppState) { s.Form["name"] = text })
		setState(chatID, "auth_signup_email")
		b.sendMessage(chatID, b.t("auth_enter_email", chatID))

	case "auth_signup_email":
		if err := validateEmail(text); err != nil {
			b.sendMessage(chatID, err.Error())
			return
		}
		withState(chatID, func(s *AppState) { s.Form["email"] = text })
		setState(chatID, "auth_signup_password")
		b.sendMessage(chatID, b.t("auth_enter_password_new", chatID))

	case "auth_signup_password":
		if err := validatePassword(text); err != nil {
			b.sendMessage(chatID, err.Error())
			return
		}
		withState(chatID, func(s *AppState) { s.Form["password"] = text })
		setState(chatID, "auth_signup_confirm")
		b.sendMessage(chatID, b.t("auth_confirm_password", chatID))

	case "auth_signup_confirm":
		app := getAppState(chatID)
		appStates.RLock()
		name := app.Form["name"]
		email := app.Form["email"]
		password := app.Form["password"]
		appStates.RUnlock()

		if err := validatePasswordConfirm(password, text); err != nil {
			setState(chatID, "auth_signup_password")
			b.sendMessage(chatID, err.Error()+"\n"+b.t("auth_enter_password_new", chatID))
			return
		}
		b.signUp(chatID, name, email, password)
	}
}

// signIn выполняет вход и запускает последовательность загрузки
func (b *Bot) signIn(chatID int64, email, password string) {
	session, err := b.gateway.SignIn(email, password)
	if err != nil {
		var authErr *gateway.AuthError
		if errors.As(err, &authErr) {
			b.sendMessage(chatID, b.tf("auth_failed", chatID, authErr.Message))
		} else {
			b.sendError(chatID, b.t("auth_error", chatID), err)
		}
		setState(chatID, "auth_login_email")
		b.sendMessage(chatID, b.t("auth_enter_email", chatID))
		return
	}

	b.adoptSession(chatID, session)
}

// signUp регистрирует пользователя, создаёт профиль и ведёт в анкету
func (b *Bot) signUp(chatID int64, name, email, password string) {
	session, err := b.gateway.SignUp(email, password, name)
	if err != nil {
		var authErr *gateway.AuthError
		if errors.As(err, &authErr) {
			b.sendMessage(chatID, b.tf("auth_failed", chatID, authErr.Message))
		} else {
			b.sendError(chatID, b.t("auth_error", chatID), err)
		}
		setState(chatID, "auth_signup_name")
		b.sendMessage(chatID, b.t("auth_enter_name", chatID))
		return
	}

	if err := b.repo.User.EnsureProfile(session.AccessToken, session.UserID, name); err != nil {
		log.Printf("Ошибка создания профиля [chat=%d]: %v", chatID, err)
	}

	b.adoptSession(chatID, session)
}

// adoptSession принимает новую сессию: сохраняет refresh-токен,
// подписывается на realtime-события и запускает загрузку данных
func (b *Bot) adoptSession(chatID int64, session *gateway.Session) {
	clearState(chatID)

	if err := b.prefs.Set(chatID, prefs.KeyRefreshToken, session.RefreshToken); err != nil {
		log.Printf("Ошибка сохранения сессии [chat=%d]: %v", chatID, err)
	}

	sub, err := b.gateway.OnSessionChange(session, func(event gateway.SessionEvent) {
		switch event {
		case gateway.EventSignedIn:
			b.loadUserData(chatID)
		case gateway.EventSignedOut:
			b.signOut(chatID, false)
		}
	})
	if err != nil {
		// Без realtime остаётся ручная проверка при /start
		log.Printf("Realtime недоступен [chat=%d]: %v", chatID, err)
	}

	withState(chatID, func(s *AppState) {
		s.Session = session
		s.Realtime = sub
		s.Form = make(map[string]string)
	})

	b.loadUserData(chatID)
}

// ensureFreshSession возвращает живую сессию чата. Истёкший access-токен
// обменивается через refresh-токен на месте, новая пара сохраняется.
// nil означает, что сессии нет или refresh-токен отозван.
func (b *Bot) ensureFreshSession(chatID int64) *gateway.Session {
	state := getAppState(chatID)
	appStates.RLock()
	session := state.Session
	appStates.RUnlock()

	if session == nil {
		return nil
	}
	if !session.Expired() {
		return session
	}

	refreshed, err := b.gateway.Refresh(session.RefreshToken)
	if err != nil {
		var authErr *gateway.AuthError
		if errors.As(err, &authErr) {
			// Токен отозван, сессию уже не спасти
			log.Printf("Refresh-токен отклонён [chat=%d]: %v", chatID, err)
			b.prefs.Delete(chatID, prefs.KeyRefreshToken)
			resetAppState(chatID)
			return nil
		}
		// Сетевой сбой: сессию не трогаем, запрос упадёт и будет залогирован
		log.Printf("Ошибка обновления сессии [chat=%d]: %v", chatID, err)
		return session
	}

	if err := b.prefs.Set(chatID, prefs.KeyRefreshToken, refreshed.RefreshToken); err != nil {
		log.Printf("Ошибка сохранения сессии [chat=%d]: %v", chatID, err)
	}

	withState(chatID, func(s *AppState) {
		// Пока шёл обмен, пользователь мог выйти
		if s.Session != nil && s.Session.UserID == session.UserID {
			s.Session = refreshed
		}
	})
	log.Printf("Сессия обновлена [chat=%d]", chatID)
	return refreshed
}

// signOut завершает сессию и возвращает чат на экран входа.
// Выход побеждает незавершённые загрузки: состояние чата сбрасывается целиком.
func (b *Bot) signOut(chatID int64, remote bool) {
	state := getAppState(chatID)
	appStates.RLock()
	session := state.Session
	appStates.RUnlock()

	if remote && session != nil {
		if err := b.gateway.SignOut(session.AccessToken); err != nil {
			log.Printf("Ошибка выхода [chat=%d]: %v", chatID, err)
		}
	}

	if err := b.prefs.Delete(chatID, prefs.KeyRefreshToken); err != nil {
		log.Printf("Ошибка удаления сессии [chat=%d]: %v", chatID, err)
	}

	resetAppState(chatID)
	clearLanguageCache(chatID)
	b.showAuth(chatID)
}

// restoreSessions при старте восстанавливает сессии из сохранённых refresh-токенов
func (b *Bot) restoreSessions() {
	tokens, err := b.prefs.Values(prefs.KeyRefreshToken)
	if err != nil {
		log.Printf("Ошибка чтения сохранённых сессий: %v", err)
		return
	}

	for chatID, token := range tokens {
		session, err := b.gateway.Refresh(token)
		if err != nil {
			log.Printf("Сессия не восстановлена [chat=%d]: %v", chatID, err)
			b.prefs.Delete(chatID, prefs.KeyRefreshToken)
			continue
		}
		log.Printf("Сессия восстановлена [chat=%d]", chatID)
		b.adoptSession(chatID, session)
	}
}
