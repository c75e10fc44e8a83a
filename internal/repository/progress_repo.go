package repository

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"fitprobot/clients/gateway"
	"fitprobot/internal/models"
)

// ProgressRepository работает с таблицей body_progress
type ProgressRepository struct {
	gw *gateway.Client
}

// NewProgressRepository создаёт репозиторий замеров тела
func NewProgressRepository(gw *gateway.Client) *ProgressRepository {
	return &ProgressRepository{gw: gw}
}

// List возвращает все замеры пользователя от старых к новым
func (r *ProgressRepository) List(accessToken, userID string) ([]models.BodyProgress, error) {
	raw, err := r.gw.SelectMany(accessToken, "body_progress", gateway.Filter{
		"user_id": userID,
	}, "date.asc")
	if err != nil {
		return nil, fmt.Errorf("чтение замеров: %w", err)
	}

	var entries []models.BodyProgress
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("ошибка парсинга замеров: %w", err)
	}
	return entries, nil
}

// Add добавляет новый замер
func (r *ProgressRepository) Add(accessToken string, entry models.BodyProgress) (*models.BodyProgress, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if _, err := r.gw.Insert(accessToken, "body_progress", []models.BodyProgress{entry}); err != nil {
		return nil, fmt.Errorf("добавление замера: %w", err)
	}
	return &entry, nil
}
