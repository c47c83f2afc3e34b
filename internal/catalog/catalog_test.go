package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nsrpc/nsrpc/internal/adapter"
	"github.com/nsrpc/nsrpc/internal/domain"
)

func TestDecode_Valid(t *testing.T) {
	titles, err := Decode([]byte(`[{"title":"Home","img":"home"},{"title":"Splatoon 3","img":""}]`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(titles) != 2 {
		t.Fatalf("Decode() returned %d titles, want 2", len(titles))
	}
	if titles[0] != (domain.Title{Name: "Home", Artwork: "home"}) {
		t.Errorf("titles[0] = %+v", titles[0])
	}
	if titles[1].Artwork != "" {
		t.Errorf("titles[1].Artwork = %q, want empty", titles[1].Artwork)
	}
}

func TestDecode_EmptyArray(t *testing.T) {
	titles, err := Decode([]byte(`[]`))
	if err != nil {
		t.Fatalf("Decode([]) error = %v", err)
	}
	if len(titles) != 0 {
		t.Errorf("Decode([]) = %v, want empty", titles)
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := map[string]string{
		"garbage":         `<html>`,
		"null":            `null`,
		"object":          `{"title":"Home","img":"home"}`,
		"missing title":   `[{"img":"home"}]`,
		"empty title":     `[{"title":"","img":"home"}]`,
		"missing img":     `[{"title":"Home"}]`,
		"wrong type":      `[{"title":1,"img":"home"}]`,
		"null entry":      `[null]`,
		"duplicate title": `[{"title":"A","img":"a"},{"title":"A","img":"b"}]`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(payload))
			if !errors.Is(err, domain.ErrInvalidPayload) {
				t.Errorf("Decode(%s) error = %v, want ErrInvalidPayload", payload, err)
			}
		})
	}
}

func TestRemoteProvider_PrefersLocalFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "games.json")
	if err := os.WriteFile(file, []byte(`[{"title":"Local","img":"local"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`[{"title":"Remote","img":"remote"}]`))
	}))
	defer srv.Close()

	p := NewRemoteProvider(file, srv.URL, time.Second, adapter.NullLogger())
	titles, err := p.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchCatalog() error = %v", err)
	}
	if len(titles) != 1 || titles[0].Name != "Local" {
		t.Errorf("FetchCatalog() = %v, want the local file", titles)
	}
	if hits != 0 {
		t.Errorf("server hit %d times, want 0", hits)
	}
}

func TestRemoteProvider_FallsBackToURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"title":"Home","img":"home"},{"title":"Remote","img":"remote"}]`))
	}))
	defer srv.Close()

	missing := filepath.Join(t.TempDir(), "games.json")
	p := NewRemoteProvider(missing, srv.URL, time.Second, adapter.NullLogger())
	titles, err := p.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchCatalog() error = %v", err)
	}
	if len(titles) != 2 || titles[1].Name != "Remote" {
		t.Errorf("FetchCatalog() = %v, want the remote list", titles)
	}
}

func TestRemoteProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name:    "server error",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			want:    domain.ErrUnavailable,
		},
		{
			name:    "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"oops":true}`)) },
			want:    domain.ErrInvalidPayload,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			p := NewRemoteProvider("", srv.URL, time.Second, adapter.NullLogger())
			_, err := p.FetchCatalog(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("FetchCatalog() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRemoteProvider_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := NewRemoteProvider("", url, time.Second, adapter.NullLogger())
	_, err := p.FetchCatalog(context.Background())
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("FetchCatalog() error = %v, want ErrUnavailable", err)
	}
}

func TestRemoteProvider_NothingConfigured(t *testing.T) {
	p := NewRemoteProvider("", "", 0, adapter.NullLogger())
	_, err := p.FetchCatalog(context.Background())
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("FetchCatalog() error = %v, want ErrUnavailable", err)
	}
}

func TestBuiltinProvider_Switch2(t *testing.T) {
	titles, err := NewBuiltinProvider(nil).FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchCatalog() error = %v", err)
	}
	want := []domain.Title{
		{Name: "Home", Artwork: "home"},
		{Name: "Mario Kart World", Artwork: "mkw"},
		{Name: "Cyberpunk 2077: Complete Edition", Artwork: "cp2077"},
	}
	if len(titles) != len(want) {
		t.Fatalf("FetchCatalog() returned %d titles, want %d", len(titles), len(want))
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("titles[%d] = %+v, want %+v", i, titles[i], want[i])
		}
	}
}

func TestSource_Provider(t *testing.T) {
	src, err := NewSource(adapter.DefaultConfig(), adapter.NullLogger())
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	for _, target := range domain.ConsoleTargets {
		if _, err := src.Provider(target); err != nil {
			t.Errorf("Provider(%s) error = %v", target, err)
		}
	}
	if _, err := src.Provider("wiiu"); !errors.Is(err, domain.ErrUnknownConsole) {
		t.Errorf("Provider(wiiu) error = %v, want ErrUnknownConsole", err)
	}
}

func TestFilter(t *testing.T) {
	titles := []domain.Title{
		{Name: "Home"},
		{Name: "Mario Kart World"},
		{Name: "Super Mario Odyssey"},
		{Name: "Cyberpunk 2077: Complete Edition"},
	}

	if got := Filter(titles, ""); len(got) != len(titles) {
		t.Errorf("Filter(empty) returned %d titles, want %d", len(got), len(titles))
	}

	got := Filter(titles, "mario")
	if len(got) != 2 {
		t.Fatalf("Filter(mario) = %v, want 2 matches", got)
	}
	for _, title := range got {
		if title.Name == "Home" || title.Name == "Cyberpunk 2077: Complete Edition" {
			t.Errorf("Filter(mario) unexpectedly matched %q", title.Name)
		}
	}

	if got := Filter(titles, "zzz"); len(got) != 0 {
		t.Errorf("Filter(zzz) = %v, want none", got)
	}
}
