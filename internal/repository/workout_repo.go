package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"fitprobot/clients/gateway"
	"fitprobot/internal/models"
)

// WorkoutRepository работает с таблицами workouts и exercises
type WorkoutRepository struct {
	gw *gateway.Client
}

// NewWorkoutRepository создаёт репозиторий тренировок
func NewWorkoutRepository(gw *gateway.Client) *WorkoutRepository {
	return &WorkoutRepository{gw: gw}
}

// GetCurrent возвращает незавершённую тренировку пользователя с упражнениями.
// Упражнения идут в порядке order_index. Если тренировки нет — gateway.ErrNotFound.
func (r *WorkoutRepository) GetCurrent(accessToken, userID string) (*models.Workout, error) {
	raw, err := r.gw.SelectMany(accessToken, "workouts", gateway.Filter{
		"user_id":   userID,
		"completed": "false",
	}, "created_at.asc")
	if err != nil {
		return nil, fmt.Errorf("чтение тренировок: %w", err)
	}

	var workouts []models.Workout
	if err := json.Unmarshal(raw, &workouts); err != nil {
		return nil, fmt.Errorf("ошибка парсинга тренировок: %w", err)
	}
	if len(workouts) == 0 {
		return nil, gateway.ErrNotFound
	}

	workout := workouts[0]
	exercises, err := r.getExercises(accessToken, workout.ID)
	if err != nil {
		return nil, err
	}
	workout.Exercises = exercises
	return &workout, nil
}

// getExercises читает упражнения тренировки в порядке выполнения
func (r *WorkoutRepository) getExercises(accessToken, workoutID string) ([]models.Exercise, error) {
	raw, err := r.gw.SelectMany(accessToken, "exercises", gateway.Filter{
		"workout_id": workoutID,
	}, "order_index.asc")
	if err != nil {
		return nil, fmt.Errorf("чтение упражнений: %w", err)
	}

	var exercises []models.Exercise
	if err := json.Unmarshal(raw, &exercises); err != nil {
		return nil, fmt.Errorf("ошибка парсинга упражнений: %w", err)
	}
	for i := range exercises {
		if err := exercises[i].Validate(); err != nil {
			return nil, err
		}
	}
	return exercises, nil
}

// UpdateExercise изменяет одно поле упражнения на бэкенде.
// Вызывается только для упражнений, у которых уже есть id.
func (r *WorkoutRepository) UpdateExercise(accessToken, exerciseID string, field string, value interface{}) error {
	if exerciseID == "" {
		return errors.New("упражнение без id")
	}
	partial := map[string]interface{}{field: value}
	if err := r.gw.Update(accessToken, "exercises", gateway.Filter{"id": exerciseID}, partial); err != nil {
		return fmt.Errorf("обновление упражнения: %w", err)
	}
	return nil
}

// CompleteWorkout помечает тренировку завершённой
func (r *WorkoutRepository) CompleteWorkout(accessToken, workoutID string) error {
	partial := map[string]bool{"completed": true}
	if err := r.gw.Update(accessToken, "workouts", gateway.Filter{"id": workoutID}, partial); err != nil {
		return fmt.Errorf("завершение тренировки: %w", err)
	}
	return nil
}
