package prefs

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSetGetRoundtrip(t *testing.T) {
	store := openTestStore(t)

	if err := store.Set(100, KeyLanguage, "en"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := store.Get(100, KeyLanguage)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "en" {
		t.Errorf("Get() = %q, want %q", got, "en")
	}

	// Перезапись существующего значения
	if err := store.Set(100, KeyLanguage, "ru"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	got, _ = store.Get(100, KeyLanguage)
	if got != "ru" {
		t.Errorf("Get() after overwrite = %q, want %q", got, "ru")
	}
}

func TestGetMissingKey(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Get(100, "no-such-key")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "" {
		t.Errorf("Get() = %q, want empty", got)
	}
}

func TestBoolFlag(t *testing.T) {
	store := openTestStore(t)

	enabled, err := store.GetBool(100, KeyWaterRemindersEnabled)
	if err != nil {
		t.Fatalf("GetBool() error = %v", err)
	}
	if enabled {
		t.Error("GetBool() default = true, want false")
	}

	if err := store.SetBool(100, KeyWaterRemindersEnabled, true); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}
	enabled, _ = store.GetBool(100, KeyWaterRemindersEnabled)
	if !enabled {
		t.Error("GetBool() = false after SetBool(true)")
	}
}

func TestChatsWithFlag(t *testing.T) {
	store := openTestStore(t)

	_ = store.SetBool(1, KeyWaterRemindersEnabled, true)
	_ = store.SetBool(2, KeyWaterRemindersEnabled, false)
	_ = store.SetBool(3, KeyWaterRemindersEnabled, true)

	chats, err := store.ChatsWithFlag(KeyWaterRemindersEnabled)
	if err != nil {
		t.Fatalf("ChatsWithFlag() error = %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("ChatsWithFlag() = %v, want 2 chats", chats)
	}
	seen := map[int64]bool{}
	for _, id := range chats {
		seen[id] = true
	}
	if !seen[1] || !seen[3] {
		t.Errorf("ChatsWithFlag() = %v, want chats 1 and 3", chats)
	}
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)

	_ = store.Set(100, KeyRefreshToken, "refresh-abc")
	if err := store.Delete(100, KeyRefreshToken); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, _ := store.Get(100, KeyRefreshToken)
	if got != "" {
		t.Errorf("Get() after Delete = %q, want empty", got)
	}
}

func TestValues(t *testing.T) {
	store := openTestStore(t)

	if err := store.Set(1, KeyRefreshToken, "token-a"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(2, KeyRefreshToken, "token-b"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(3, KeyRefreshToken, ""); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(1, KeyLanguage, "en"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	values, err := store.Values(KeyRefreshToken)
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("len(values) = %d, want 2 (пустые значения не возвращаются)", len(values))
	}
	if values[1] != "token-a" || values[2] != "token-b" {
		t.Errorf("values = %v", values)
	}
}
