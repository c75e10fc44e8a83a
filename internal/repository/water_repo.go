package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"fitprobot/clients/gateway"
	"fitprobot/internal/models"
)

// WaterTarget — дневная норма стаканов воды
const WaterTarget = 8

// WaterRepository работает с таблицей water_intake
type WaterRepository struct {
	gw *gateway.Client
}

// NewWaterRepository создаёт репозиторий учёта воды
func NewWaterRepository(gw *gateway.Client) *WaterRepository {
	return &WaterRepository{gw: gw}
}

// GetForDate возвращает запись воды за дату.
// Если записи нет, возвращает нулевую запись с дневной нормой.
func (r *WaterRepository) GetForDate(accessToken, userID, date string) (*models.WaterIntake, error) {
	raw, err := r.gw.SelectOne(accessToken, "water_intake", gateway.Filter{
		"user_id": userID,
		"date":    date,
	})
	if errors.Is(err, gateway.ErrNotFound) {
		return &models.WaterIntake{
			UserID:  userID,
			Glasses: 0,
			Target:  WaterTarget,
			Date:    date,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("чтение воды: %w", err)
	}

	var intake models.WaterIntake
	if err := json.Unmarshal(raw, &intake); err != nil {
		return nil, fmt.Errorf("ошибка парсинга записи воды: %w", err)
	}
	if intake.Target == 0 {
		intake.Target = WaterTarget
	}
	return &intake, nil
}

// Save записывает количество стаканов за дату.
// На (user_id, date) хранится ровно одна запись.
func (r *WaterRepository) Save(accessToken string, intake models.WaterIntake) error {
	if err := intake.Validate(); err != nil {
		return err
	}
	record := map[string]interface{}{
		"user_id": intake.UserID,
		"glasses": intake.Glasses,
		"target":  intake.Target,
		"date":    intake.Date,
	}
	if err := r.gw.Upsert(accessToken, "water_intake", record, "user_id,date"); err != nil {
		return fmt.Errorf("сохранение воды: %w", err)
	}
	return nil
}
