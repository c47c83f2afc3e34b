package domain

import (
	"errors"
	"testing"
)

func TestParseConsoleTarget(t *testing.T) {
	tests := []struct {
		input string
		want  ConsoleTarget
	}{
		{"switch1", ConsoleSwitch1},
		{"Switch", ConsoleSwitch1},
		{" ns ", ConsoleSwitch1},
		{"1", ConsoleSwitch1},
		{"switch2", ConsoleSwitch2},
		{"Switch 2", ConsoleSwitch2},
		{"NS2", ConsoleSwitch2},
	}

	for _, tt := range tests {
		got, err := ParseConsoleTarget(tt.input)
		if err != nil {
			t.Errorf("ParseConsoleTarget(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseConsoleTarget(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if _, err := ParseConsoleTarget("wii u"); !errors.Is(err, ErrUnknownConsole) {
		t.Errorf("expected ErrUnknownConsole, got %v", err)
	}
}

func TestCatalogSnapshot_IsStale(t *testing.T) {
	titles := []Title{{Name: "Splatoon 3", Artwork: "splatoon3"}}

	tests := []struct {
		name string
		snap CatalogSnapshot
		want bool
	}{
		{"fresh", CatalogSnapshot{Status: CatalogFresh, Titles: titles}, false},
		{"cached", CatalogSnapshot{Status: CatalogStale, Titles: titles}, true},
		{"error keeps titles", CatalogSnapshot{Status: CatalogError, Titles: titles}, true},
		{"error without titles", CatalogSnapshot{Status: CatalogError}, false},
	}

	for _, tt := range tests {
		if got := tt.snap.IsStale(); got != tt.want {
			t.Errorf("%s: IsStale() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFindTitle_ExactMatch(t *testing.T) {
	titles := []Title{{Name: "Splatoon 3", Artwork: "splatoon3"}}

	if got, ok := FindTitle(titles, "Splatoon 3"); !ok || got.Artwork != "splatoon3" {
		t.Errorf("FindTitle exact = %+v, %v", got, ok)
	}
	if _, ok := FindTitle(titles, "splatoon 3"); ok {
		t.Error("FindTitle should be case sensitive")
	}
}

func TestSelection_IsHome(t *testing.T) {
	if !HomeSelection.IsHome() {
		t.Error("HomeSelection.IsHome() = false")
	}
	if (Selection{Name: "Home", Artwork: "splatoon3"}).IsHome() {
		t.Error("selection with other artwork is not home")
	}
}
