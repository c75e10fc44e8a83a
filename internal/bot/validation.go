package bot

import (
	"regexp"
	"strings"
)

// ValidationError — ошибка проверки пользовательского ввода
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateEmail проверяет адрес почты для входа и регистрации
func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "Email не может быть пустым"}
	}
	if !emailPattern.MatchString(email) {
		return ValidationError{Field: "email", Message: "Неверный формат email"}
	}
	return nil
}

// validatePassword проверяет пароль при регистрации
func validatePassword(password string) error {
	if len(password) < 6 {
		return ValidationError{Field: "password", Message: "Пароль должен быть не короче 6 символов"}
	}
	return nil
}

// validatePasswordConfirm проверяет совпадение паролей
func validatePasswordConfirm(password, confirm string) error {
	if password != confirm {
		return ValidationError{Field: "password_confirm", Message: "Пароли не совпадают"}
	}
	return nil
}

// validateName проверяет имя при регистрации
func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "Имя не может быть пустым"}
	}
	if len([]rune(name)) > 100 {
		return ValidationError{Field: "name", Message: "Имя слишком длинное (максимум 100 символов)"}
	}
	return nil
}

// validateWeight проверяет вес в килограммах
func validateWeight(weight float64) error {
	if weight <= 0 {
		return ValidationError{Field: "weight", Message: "Вес должен быть положительным числом"}
	}
	if weight > 500 {
		return ValidationError{Field: "weight", Message: "Вес слишком большой (максимум 500 кг)"}
	}
	return nil
}

// validateRPE проверяет субъективную оценку нагрузки
func validateRPE(rpe int) error {
	if rpe < 1 || rpe > 10 {
		return ValidationError{Field: "rpe", Message: "RPE должен быть от 1 до 10"}
	}
	return nil
}

// validateCalories проверяет калорийность приёма пищи
func validateCalories(calories float64) error {
	if calories < 0 {
		return ValidationError{Field: "calories", Message: "Калории не могут быть отрицательными"}
	}
	if calories > 5000 {
		return ValidationError{Field: "calories", Message: "Слишком много калорий для одного приёма"}
	}
	return nil
}

// validateMacro проверяет граммы белков, углеводов или жиров
func validateMacro(field string, grams float64) error {
	if grams < 0 {
		return ValidationError{Field: field, Message: "Значение не может быть отрицательным"}
	}
	if grams > 1000 {
		return ValidationError{Field: field, Message: "Слишком большое значение (максимум 1000 г)"}
	}
	return nil
}

// validateMealName проверяет название приёма пищи
func validateMealName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "meal_name", Message: "Название не может быть пустым"}
	}
	if len([]rune(name)) > 100 {
		return ValidationError{Field: "meal_name", Message: "Название слишком длинное (максимум 100 символов)"}
	}
	return nil
}
