package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"fitprobot/clients/gateway"
	"fitprobot/internal/models"
)

// ErrProfileMissing возвращается, когда у пользователя нет записи в profiles.
// Такого пользователя отправляют заполнять анкету заново.
var ErrProfileMissing = errors.New("профиль не найден")

// UserRepository работает с таблицами profiles и users
type UserRepository struct {
	gw *gateway.Client
}

// NewUserRepository создаёт репозиторий пользователей
func NewUserRepository(gw *gateway.Client) *UserRepository {
	return &UserRepository{gw: gw}
}

// GetUserData собирает данные пользователя из profiles и users.
// Отсутствие записи в users означает незаполненную анкету и ошибкой не считается.
func (r *UserRepository) GetUserData(accessToken, userID string) (*models.UserData, error) {
	raw, err := r.gw.SelectOne(accessToken, "profiles", gateway.Filter{"id": userID})
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, ErrProfileMissing
	}
	if err != nil {
		return nil, fmt.Errorf("чтение профиля: %w", err)
	}

	var profile models.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("ошибка парсинга профиля: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	data := &models.UserData{
		ID:   profile.ID,
		Name: profile.Name,
	}

	raw, err = r.gw.SelectOne(accessToken, "users", gateway.Filter{"id": userID})
	if errors.Is(err, gateway.ErrNotFound) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("чтение аккаунта: %w", err)
	}

	var account models.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, fmt.Errorf("ошибка парсинга аккаунта: %w", err)
	}

	if account.Name != "" {
		data.Name = account.Name
	}
	data.Email = account.Email
	data.Goal = account.Goal
	data.Level = account.Level
	data.DaysPerWeek = account.DaysPerWeek
	data.SessionTime = account.SessionTime
	data.Equipment = account.Equipment
	data.Weight = account.Weight
	data.TargetWeight = account.TargetWeight
	data.Streak = account.Streak
	return data, nil
}

// EnsureProfile создаёт запись профиля, если её ещё нет
func (r *UserRepository) EnsureProfile(accessToken, userID, name string) error {
	profile := models.Profile{ID: userID, Name: name}
	if err := r.gw.Upsert(accessToken, "profiles", profile, "id"); err != nil {
		return fmt.Errorf("сохранение профиля: %w", err)
	}
	return nil
}

// SaveOnboarding записывает ответы анкеты в users
func (r *UserRepository) SaveOnboarding(accessToken string, data *models.UserData) error {
	account := models.Account{
		ID:           data.ID,
		Email:        data.Email,
		Name:         data.Name,
		Goal:         data.Goal,
		Level:        data.Level,
		DaysPerWeek:  data.DaysPerWeek,
		SessionTime:  data.SessionTime,
		Equipment:    data.Equipment,
		Weight:       data.Weight,
		TargetWeight: data.TargetWeight,
		Streak:       data.Streak,
	}
	if err := r.gw.Upsert(accessToken, "users", account, "id"); err != nil {
		return fmt.Errorf("сохранение анкеты: %w", err)
	}
	return nil
}

// UpdateStreak обновляет серию тренировок
func (r *UserRepository) UpdateStreak(accessToken, userID string, streak int) error {
	partial := map[string]int{"streak": streak}
	return r.gw.Update(accessToken, "users", gateway.Filter{"id": userID}, partial)
}
