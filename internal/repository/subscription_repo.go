package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"fitprobot/clients/gateway"
	"fitprobot/internal/models"
)

// SubscriptionAmount — стоимость подписки в месяц
const SubscriptionAmount = 25.99

// SubscriptionRepository работает с таблицей subscriptions
type SubscriptionRepository struct {
	gw *gateway.Client
}

// NewSubscriptionRepository создаёт репозиторий подписок
func NewSubscriptionRepository(gw *gateway.Client) *SubscriptionRepository {
	return &SubscriptionRepository{gw: gw}
}

// GetActive возвращает действующую подписку пользователя.
// Если активной подписки нет, возвращает gateway.ErrNotFound.
func (r *SubscriptionRepository) GetActive(accessToken, userID string) (*models.Subscription, error) {
	raw, err := r.gw.SelectOne(accessToken, "subscriptions", gateway.Filter{
		"user_id": userID,
		"status":  models.SubscriptionActive,
	})
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("чтение подписки: %w", err)
	}

	var sub models.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fmt.Errorf("ошибка парсинга подписки: %w", err)
	}
	return &sub, nil
}

// Activate записывает оплаченную подписку
func (r *SubscriptionRepository) Activate(accessToken, userID, paymentMethod string) (*models.Subscription, error) {
	sub := models.Subscription{
		UserID:        userID,
		Status:        models.SubscriptionActive,
		PaymentMethod: paymentMethod,
		Amount:        SubscriptionAmount,
	}

	raw, err := r.gw.Insert(accessToken, "subscriptions", []models.Subscription{sub})
	if err != nil {
		return nil, fmt.Errorf("активация подписки: %w", err)
	}

	var created []models.Subscription
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("ошибка парсинга подписки: %w", err)
	}
	if len(created) == 0 {
		return &sub, nil
	}
	return &created[0], nil
}
