package bot

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "anna@example.com", false},
		{"subdomain", "anna@mail.example.com", false},
		{"empty", "", true},
		{"no at sign", "anna.example.com", true},
		{"no domain", "anna@", true},
		{"spaces", "anna @example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "secret99", false},
		{"minimum length", "123456", false},
		{"too short", "12345", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("validatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePasswordConfirm(t *testing.T) {
	if err := validatePasswordConfirm("secret99", "secret99"); err != nil {
		t.Errorf("совпадающие пароли не должны давать ошибку: %v", err)
	}
	if err := validatePasswordConfirm("secret99", "secret98"); err == nil {
		t.Error("несовпадающие пароли должны давать ошибку")
	}
}

func TestValidateRPE(t *testing.T) {
	tests := []struct {
		name    string
		rpe     int
		wantErr bool
	}{
		{"valid rpe", 7, false},
		{"minimum valid", 1, false},
		{"maximum valid", 10, false},
		{"zero", 0, true},
		{"too high", 11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRPE(tt.rpe)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateRPE(%v) error = %v, wantErr %v", tt.rpe, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCalories(t *testing.T) {
	tests := []struct {
		name     string
		calories float64
		wantErr  bool
	}{
		{"valid", 560, false},
		{"zero", 0, false},
		{"negative", -10, true},
		{"absurd", 5001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCalories(tt.calories)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateCalories(%v) error = %v, wantErr %v", tt.calories, err, tt.wantErr)
			}
		})
	}
}
