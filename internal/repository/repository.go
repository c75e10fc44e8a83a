package repository

import "fitprobot/clients/gateway"

// Repository содержит все репозитории
type Repository struct {
	User         *UserRepository
	Subscription *SubscriptionRepository
	Workout      *WorkoutRepository
	Meal         *MealRepository
	Water        *WaterRepository
	Progress     *ProgressRepository
}

// New создаёт новый экземпляр Repository
func New(gw *gateway.Client) *Repository {
	return &Repository{
		User:         NewUserRepository(gw),
		Subscription: NewSubscriptionRepository(gw),
		Workout:      NewWorkoutRepository(gw),
		Meal:         NewMealRepository(gw),
		Water:        NewWaterRepository(gw),
		Progress:     NewProgressRepository(gw),
	}
}
