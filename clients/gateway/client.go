// Package gateway — клиент удалённого бэкенда (Supabase-совместимый API):
// аутентификация и хранилище записей. Сам бэкенд здесь не реализуется,
// клиент только вызывает его и разбирает ответы.
package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound возвращается, когда запрошенная запись отсутствует.
// Отличается от прочих ошибок: пустой результат — не сбой бэкенда.
var ErrNotFound = errors.New("запись не найдена")

// AuthError — ошибка аутентификации, показывается пользователю на форме входа
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// Client — клиент Gateway
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// NewClient создаёт новый клиент Gateway
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Filter — условия выборки: колонка -> значение (сравнение на равенство)
type Filter map[string]string

// authResponse — ответ /auth/v1 с парой токенов
type authResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
	Msg              string `json:"msg,omitempty"`
}

// SignIn выполняет вход по email и паролю
func (c *Client) SignIn(email, password string) (*Session, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}
	return c.authRequest("/auth/v1/token?grant_type=password", payload)
}

// SignUp регистрирует нового пользователя; имя уходит в user metadata
func (c *Client) SignUp(email, password, name string) (*Session, error) {
	payload := map[string]interface{}{
		"email":    email,
		"password": password,
		"data": map[string]string{
			"name": name,
		},
	}
	return c.authRequest("/auth/v1/signup", payload)
}

// Refresh обменивает refresh-токен на новую пару токенов.
// Используется при восстановлении сессии после перезапуска.
func (c *Client) Refresh(refreshToken string) (*Session, error) {
	payload := map[string]string{
		"refresh_token": refreshToken,
	}
	return c.authRequest("/auth/v1/token?grant_type=refresh_token", payload)
}

// SignOut завершает сессию на стороне Gateway
func (c *Client) SignOut(accessToken string) error {
	req, err := http.NewRequest("POST", c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	c.setHeaders(req, accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("выход не выполнен: статус %d", resp.StatusCode)
	}
	return nil
}

// GetUser проверяет access-токен и возвращает владельца сессии
func (c *Client) GetUser(accessToken string) (string, string, error) {
	req, err := http.NewRequest("GET", c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return "", "", fmt.Errorf("ошибка создания запроса: %w", err)
	}
	c.setHeaders(req, accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("ошибка запроса: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("ошибка чтения ответа: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return "", "", &AuthError{Message: "сессия истекла"}
	}
	if resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("статус %d: %s", resp.StatusCode, body)
	}

	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return "", "", fmt.Errorf("ошибка парсинга ответа: %w", err)
	}
	return user.ID, user.Email, nil
}

// authRequest выполняет запрос к /auth/v1 и разбирает пару токенов
func (c *Client) authRequest(path string, payload interface{}) (*Session, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	c.setHeaders(req, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	var authResp authResponse
	if err := json.Unmarshal(body, &authResp); err != nil {
		return nil, fmt.Errorf("ошибка парсинга ответа: %w", err)
	}

	if resp.StatusCode >= 300 || authResp.AccessToken == "" {
		msg := authResp.ErrorDescription
		if msg == "" {
			msg = authResp.Msg
		}
		if msg == "" {
			msg = authResp.Error
		}
		if msg == "" {
			msg = fmt.Sprintf("статус %d", resp.StatusCode)
		}
		return nil, &AuthError{Message: msg}
	}

	return newSession(authResp)
}

// SelectOne читает ровно одну запись таблицы по фильтру
func (c *Client) SelectOne(accessToken, table string, filter Filter) (json.RawMessage, error) {
	req, err := c.restRequest("GET", accessToken, table, filter, "", nil)
	if err != nil {
		return nil, err
	}
	// PostgREST: единственный объект вместо массива
	req.Header.Set("Accept", "application/vnd.pgrst.object+json")

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotAcceptable || status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status >= 300 {
		return nil, fmt.Errorf("чтение %s: статус %d: %s", table, status, body)
	}
	return body, nil
}

// SelectMany читает список записей таблицы по фильтру
// orderBy задаётся в виде "created_at.asc" и может быть пустым
func (c *Client) SelectMany(accessToken, table string, filter Filter, orderBy string) (json.RawMessage, error) {
	req, err := c.restRequest("GET", accessToken, table, filter, orderBy, nil)
	if err != nil {
		return nil, err
	}

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, fmt.Errorf("чтение %s: статус %d: %s", table, status, body)
	}
	return body, nil
}

// Insert добавляет запись и возвращает её представление
func (c *Client) Insert(accessToken, table string, record interface{}) (json.RawMessage, error) {
	req, err := c.restRequest("POST", accessToken, table, nil, "", record)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "return=representation")

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, fmt.Errorf("вставка в %s: статус %d: %s", table, status, body)
	}
	return body, nil
}

// Update изменяет указанные поля записей, подходящих под фильтр
func (c *Client) Update(accessToken, table string, filter Filter, partial interface{}) error {
	req, err := c.restRequest("PATCH", accessToken, table, filter, "", partial)
	if err != nil {
		return err
	}

	body, status, err := c.do(req)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("обновление %s: статус %d: %s", table, status, body)
	}
	return nil
}

// Upsert вставляет запись или обновляет существующую по ключу конфликта
func (c *Client) Upsert(accessToken, table string, record interface{}, conflictKeys string) error {
	filter := Filter{}
	req, err := c.restRequest("POST", accessToken, table, filter, "", record)
	if err != nil {
		return err
	}
	q := req.URL.Query()
	q.Set("on_conflict", conflictKeys)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Prefer", "resolution=merge-duplicates")

	body, status, err := c.do(req)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("upsert в %s: статус %d: %s", table, status, body)
	}
	return nil
}

// restRequest собирает запрос к /rest/v1 с фильтрами PostgREST
func (c *Client) restRequest(method, accessToken, table string, filter Filter, orderBy string, payload interface{}) (*http.Request, error) {
	var bodyReader io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("ошибка сериализации: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+"/rest/v1/"+table, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	q := url.Values{}
	if method == "GET" {
		q.Set("select", "*")
	}
	for column, value := range filter {
		q.Set(column, "eq."+value)
	}
	if orderBy != "" {
		q.Set("order", orderBy)
	}
	req.URL.RawQuery = q.Encode()

	c.setHeaders(req, accessToken)
	return req, nil
}

// do выполняет запрос и возвращает тело со статусом
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка запроса: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка чтения ответа: %w", err)
	}
	return body, resp.StatusCode, nil
}

// setHeaders ставит ключ API и авторизацию
func (c *Client) setHeaders(req *http.Request, accessToken string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}
}
