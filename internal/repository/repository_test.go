package repository

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitprobot/clients/gateway"
)

// newTestRepo поднимает фиктивный Gateway и репозитории поверх него
func newTestRepo(t *testing.T, handler http.HandlerFunc) *Repository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(gateway.NewClient(srv.URL, "anon-key"))
}

func TestGetUserDataMergesProfileAndAccount(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/profiles":
			w.Write([]byte(`{"id":"user-1","name":"Анна"}`))
		case "/rest/v1/users":
			w.Write([]byte(`{"id":"user-1","email":"anna@example.com","name":"Анна К.","goal":"lose_weight","level":"beginner","days_per_week":3,"session_time":45,"equipment":["dumbbells"],"weight":68.5,"target_weight":62,"streak":4}`))
		default:
			http.NotFound(w, r)
		}
	})

	data, err := repo.User.GetUserData("token", "user-1")
	if err != nil {
		t.Fatalf("GetUserData: %v", err)
	}
	if data.Name != "Анна К." {
		t.Errorf("Name = %q, имя из users должно перекрывать профиль", data.Name)
	}
	if data.Goal != "lose_weight" || data.Level != "beginner" {
		t.Errorf("анкета не прочитана: goal=%q level=%q", data.Goal, data.Level)
	}
	if !data.OnboardingComplete() {
		t.Error("OnboardingComplete() = false при заполненной анкете")
	}
	if data.Streak != 4 {
		t.Errorf("Streak = %d, want 4", data.Streak)
	}
}

func TestGetUserDataProfileMissing(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
	})

	_, err := repo.User.GetUserData("token", "user-1")
	if !errors.Is(err, ErrProfileMissing) {
		t.Errorf("err = %v, want ErrProfileMissing", err)
	}
}

func TestGetUserDataAccountMissing(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/profiles":
			w.Write([]byte(`{"id":"user-1","name":"Анна"}`))
		default:
			w.WriteHeader(http.StatusNotAcceptable)
		}
	})

	data, err := repo.User.GetUserData("token", "user-1")
	if err != nil {
		t.Fatalf("GetUserData: %v", err)
	}
	if data.OnboardingComplete() {
		t.Error("OnboardingComplete() = true без записи в users")
	}
	if data.Name != "Анна" {
		t.Errorf("Name = %q, want имя из profiles", data.Name)
	}
}

func TestGetActiveSubscriptionNotFound(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
	})

	_, err := repo.Subscription.GetActive("token", "user-1")
	if !errors.Is(err, gateway.ErrNotFound) {
		t.Errorf("err = %v, want gateway.ErrNotFound", err)
	}
}

func TestWaterGetForDateDefaults(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
	})

	intake, err := repo.Water.GetForDate("token", "user-1", "2025-03-10")
	if err != nil {
		t.Fatalf("GetForDate: %v", err)
	}
	if intake.Glasses != 0 || intake.Target != WaterTarget {
		t.Errorf("пустой день должен давать 0/%d, получено %d/%d", WaterTarget, intake.Glasses, intake.Target)
	}
}

func TestGetCurrentWorkoutSortsExercises(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/workouts":
			w.Write([]byte(`[{"id":"w-1","user_id":"user-1","name":"День ног","completed":false}]`))
		case "/rest/v1/exercises":
			if got := r.URL.Query().Get("order"); got != "order_index.asc" {
				t.Errorf("order = %q, want order_index.asc", got)
			}
			w.Write([]byte(`[{"id":"e-1","name":"Присед","sets":4,"reps":"8","rest":120,"order_index":0},{"id":"e-2","name":"Выпады","sets":3,"reps":"12","rest":90,"order_index":1}]`))
		default:
			http.NotFound(w, r)
		}
	})

	workout, err := repo.Workout.GetCurrent("token", "user-1")
	if err != nil {
		t.Fatalf("GetCurrent: %v", err)
	}
	if len(workout.Exercises) != 2 {
		t.Fatalf("len(Exercises) = %d, want 2", len(workout.Exercises))
	}
	if workout.Exercises[0].Name != "Присед" {
		t.Errorf("первое упражнение %q, want Присед", workout.Exercises[0].Name)
	}
}

func TestUpdateExerciseWithoutID(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("запрос не должен уходить на бэкенд")
	})

	if err := repo.Workout.UpdateExercise("token", "", "weight", 60.0); err == nil {
		t.Error("UpdateExercise без id должен вернуть ошибку")
	}
}
