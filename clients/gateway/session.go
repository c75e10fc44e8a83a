package gateway

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session — копия сессии Gateway на стороне клиента.
// Создаётся при входе/регистрации, уничтожается при выходе или истечении.
type Session struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired сообщает, истёк ли access-токен
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// newSession строит сессию из ответа /auth/v1
func newSession(resp authResponse) (*Session, error) {
	session := &Session{
		UserID:       resp.User.ID,
		Email:        resp.User.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if resp.ExpiresIn > 0 {
		session.ExpiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	// Ответ может не содержать блок user — тогда берём данные из токена.
	// Подпись не проверяем: у клиента нет секрета, это делает Gateway.
	if session.UserID == "" || session.ExpiresAt.IsZero() {
		claims, err := parseTokenClaims(resp.AccessToken)
		if err != nil {
			return nil, err
		}
		if session.UserID == "" {
			session.UserID = claims.userID
		}
		if session.Email == "" {
			session.Email = claims.email
		}
		if session.ExpiresAt.IsZero() {
			session.ExpiresAt = claims.expiresAt
		}
	}

	if session.UserID == "" {
		return nil, fmt.Errorf("сессия без идентификатора пользователя")
	}
	return session, nil
}

type tokenClaims struct {
	userID    string
	email     string
	expiresAt time.Time
}

// parseTokenClaims извлекает sub, email и exp из JWT без проверки подписи
func parseTokenClaims(accessToken string) (*tokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("ошибка разбора токена: %w", err)
	}

	result := &tokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		result.userID = sub
	}
	if email, ok := claims["email"].(string); ok {
		result.email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.expiresAt = exp.Time
	}
	return result, nil
}
