package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsPerBoard(t *testing.T) {
	full := Defaults(BoardPi)
	lite := Defaults(BoardPiLite)

	if full.Inputs[0].Pin == lite.Inputs[0].Pin {
		t.Error("board variants should have distinct default pins")
	}
	if full.Inputs[0].Mode != ModeToggle {
		t.Errorf("expected default toggle mode, got %s", full.Inputs[0].Mode)
	}
	if !full.SMS.Mode.Valid() {
		t.Errorf("invalid default SMS mode %q", full.SMS.Mode)
	}
}

func TestDefaultPinsUnknownBoard(t *testing.T) {
	if DefaultPins("mystery") != DefaultPins(BoardPi) {
		t.Error("unknown board should fall back to the full-board pins")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.yaml"), BoardPiLite)
	s, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Inputs[0].Pin != DefaultPins(BoardPiLite)[0] {
		t.Errorf("expected pi-lite defaults, got pin %d", s.Inputs[0].Pin)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	store := NewFileStore(path, BoardPi)

	s := Defaults(BoardPi)
	s.WiFi.SSID = "barn-net"
	s.WiFi.Password = "hunter2"
	s.Inputs[2].Enabled = true
	s.Inputs[2].Name = "back door"
	s.Inputs[2].Mode = ModeMomentary
	s.Inputs[2].Pin = 12
	s.Pushbullet.Enabled = true
	s.Pushbullet.Token = "pb-token"
	s.Telegram.ChatID = 424242

	if err := store.Save(s); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.WiFi.SSID != "barn-net" {
		t.Errorf("SSID not persisted: %q", got.WiFi.SSID)
	}
	if got.Inputs[2].Name != "back door" || got.Inputs[2].Mode != ModeMomentary || got.Inputs[2].Pin != 12 {
		t.Errorf("input slot not persisted: %+v", got.Inputs[2])
	}
	if got.Telegram.ChatID != 424242 {
		t.Errorf("chat id not persisted: %d", got.Telegram.ChatID)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(":\nnot yaml {"), 0o600); err != nil {
		t.Fatal(err)
	}
	store := NewFileStore(path, BoardPi)
	if _, err := store.Load(); err == nil {
		t.Error("expected error for corrupt settings file")
	}
}
