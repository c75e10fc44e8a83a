package repository

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"fitprobot/clients/gateway"
	"fitprobot/internal/models"
)

// MealRepository работает с таблицей meals
type MealRepository struct {
	gw *gateway.Client
}

// NewMealRepository создаёт репозиторий приёмов пищи
func NewMealRepository(gw *gateway.Client) *MealRepository {
	return &MealRepository{gw: gw}
}

// GetForDate возвращает приёмы пищи пользователя за дату (YYYY-MM-DD)
func (r *MealRepository) GetForDate(accessToken, userID, date string) ([]models.Meal, error) {
	raw, err := r.gw.SelectMany(accessToken, "meals", gateway.Filter{
		"user_id": userID,
		"date":    date,
	}, "created_at.asc")
	if err != nil {
		return nil, fmt.Errorf("чтение рациона: %w", err)
	}

	var meals []models.Meal
	if err := json.Unmarshal(raw, &meals); err != nil {
		return nil, fmt.Errorf("ошибка парсинга рациона: %w", err)
	}
	for i := range meals {
		if err := meals[i].Validate(); err != nil {
			return nil, err
		}
	}
	return meals, nil
}

// Add добавляет приём пищи. ID генерируется на клиенте,
// чтобы запись можно было показать до ответа бэкенда.
func (r *MealRepository) Add(accessToken string, meal models.Meal) (*models.Meal, error) {
	if err := meal.Validate(); err != nil {
		return nil, err
	}
	if meal.ID == "" {
		meal.ID = uuid.NewString()
	}

	if _, err := r.gw.Insert(accessToken, "meals", []models.Meal{meal}); err != nil {
		return nil, fmt.Errorf("добавление приёма пищи: %w", err)
	}
	return &meal, nil
}

// SetCompleted помечает приём пищи съеденным или несъеденным
func (r *MealRepository) SetCompleted(accessToken, mealID string, completed bool) error {
	partial := map[string]bool{"completed": completed}
	if err := r.gw.Update(accessToken, "meals", gateway.Filter{"id": mealID}, partial); err != nil {
		return fmt.Errorf("отметка приёма пищи: %w", err)
	}
	return nil
}
