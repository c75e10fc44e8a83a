package models

import (
	"fmt"
	"strings"
)

// Profile — запись таблицы profiles (создаётся при регистрации)
type Profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Account — запись таблицы users с анкетными данными и статистикой
type Account struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	Goal         string   `json:"goal"`
	Level        string   `json:"level"`
	DaysPerWeek  int      `json:"days_per_week"`
	SessionTime  int      `json:"session_time"`
	Equipment    []string `json:"equipment"`
	Weight       float64  `json:"weight"`
	TargetWeight float64  `json:"target_weight"`
	Streak       int      `json:"streak"`
}

// UserData — клиентское представление пользователя: profiles + users в одном виде
type UserData struct {
	ID           string
	Name         string
	Email        string
	Goal         string
	Level        string
	DaysPerWeek  int
	SessionTime  int
	Equipment    []string
	Weight       float64
	TargetWeight float64
	Streak       int
}

// OnboardingComplete — анкета заполнена, если заданы цель и уровень
func (u *UserData) OnboardingComplete() bool {
	return u.Goal != "" && u.Level != ""
}

// Subscription — запись таблицы subscriptions
type Subscription struct {
	ID            string  `json:"id,omitempty"`
	UserID        string  `json:"user_id"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	Amount        float64 `json:"amount"`
}

// SubscriptionActive — признаётся только статус "active"
const SubscriptionActive = "active"

// IsActive сообщает, действует ли подписка
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionActive
}

// Workout — запись таблицы workouts вместе с упражнениями
type Workout struct {
	ID        string     `json:"id,omitempty"`
	UserID    string     `json:"user_id"`
	Name      string     `json:"name"`
	Completed bool       `json:"completed"`
	Exercises []Exercise `json:"exercises,omitempty"`
}

// Exercise — запись таблицы exercises
type Exercise struct {
	ID         string  `json:"id,omitempty"`
	WorkoutID  string  `json:"workout_id,omitempty"`
	Name       string  `json:"name"`
	Sets       int     `json:"sets"`
	Reps       string  `json:"reps"`
	Weight     float64 `json:"weight"`
	Rest       int     `json:"rest"`
	Completed  bool    `json:"completed"`
	RPE        int     `json:"rpe"`
	OrderIndex int     `json:"order_index"`
}

// Meal — запись таблицы meals за конкретную дату
type Meal struct {
	ID        string  `json:"id,omitempty"`
	UserID    string  `json:"user_id"`
	Name      string  `json:"name"`
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fat       float64 `json:"fat"`
	Completed bool    `json:"completed"`
	Date      string  `json:"date"`
}

// WaterIntake — запись таблицы water_intake, одна на (user_id, date)
type WaterIntake struct {
	ID      string `json:"id,omitempty"`
	UserID  string `json:"user_id"`
	Glasses int    `json:"glasses"`
	Target  int    `json:"target"`
	Date    string `json:"date"`
}

// BodyProgress — запись таблицы body_progress (замеры тела)
type BodyProgress struct {
	ID     string  `json:"id,omitempty"`
	UserID string  `json:"user_id"`
	Weight float64 `json:"weight"`
	Chest  float64 `json:"chest"`
	Arm    float64 `json:"arm"`
	Waist  float64 `json:"waist"`
	Thigh  float64 `json:"thigh"`
	Date   string  `json:"date"`
}

// Validate проверяет запись профиля после чтения из хранилища
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("профиль без id")
	}
	return nil
}

// Validate проверяет запись аккаунта после чтения из хранилища
func (a *Account) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("аккаунт без id")
	}
	return nil
}

// Validate проверяет запись упражнения после чтения из хранилища
func (e *Exercise) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("упражнение без названия")
	}
	if e.Sets < 0 || e.Rest < 0 {
		return fmt.Errorf("упражнение %q: отрицательные параметры", e.Name)
	}
	return nil
}

// Validate проверяет запись приёма пищи после чтения из хранилища
func (m *Meal) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("приём пищи без названия")
	}
	if m.Calories < 0 || m.Protein < 0 || m.Carbs < 0 || m.Fat < 0 {
		return fmt.Errorf("приём пищи %q: отрицательные значения", m.Name)
	}
	return nil
}

// Validate проверяет запись воды после чтения из хранилища
func (w *WaterIntake) Validate() error {
	if w.Glasses < 0 || w.Target <= 0 {
		return fmt.Errorf("некорректная запись воды: %d/%d", w.Glasses, w.Target)
	}
	if w.Glasses > w.Target {
		return fmt.Errorf("выпито больше цели: %d/%d", w.Glasses, w.Target)
	}
	return nil
}
