package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hysterresis/garmin-exercises/pkg/garmin"
)

func newDetailServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDetailResolverNotFound(t *testing.T) {
	srv := newDetailServer(t, nil)
	client := garmin.NewClient(garmin.WithBaseURL(srv.URL), garmin.WithHTTPClient(srv.Client()))
	resolver := NewDetailResolver(client, nil)

	rec := resolver.Resolve(context.Background(), "CARDIO", "JUMPING_JACK")
	if rec.Found {
		t.Error("expected Found=false for missing detail document")
	}
	if rec.URL != "" || rec.ImageURL != "" {
		t.Errorf("expected zero record, got %+v", rec)
	}
}

func TestDetailResolverHeroImagePrecedence(t *testing.T) {
	srv := newDetailServer(t, map[string]string{
		"/web-data/exercises/en-US/CARDIO/BURPEE.json": `{
			"difficulty": "ADVANCED",
			"description": "A full-body movement.",
			"heroImage": "/images/hero.jpg",
			"videos": [{"thumbnail": "/thumbs/a.jpg"}],
			"primaryMuscles": ["QUADS"],
			"secondaryMuscles": ["CORE"]
		}`,
		"/images/hero.jpg": "jpg",
	})
	client := garmin.NewClient(
		garmin.WithBaseURL(srv.URL),
		garmin.WithVideoBaseURL(srv.URL),
		garmin.WithHTTPClient(srv.Client()),
	)
	resolver := NewDetailResolver(client, nil)

	rec := resolver.Resolve(context.Background(), "CARDIO", "BURPEE")
	if !rec.Found {
		t.Fatal("expected Found=true")
	}
	if rec.ImageURL != srv.URL+"/images/hero.jpg" {
		t.Errorf("expected hero image to win, got %q", rec.ImageURL)
	}
	if rec.URL != srv.URL+"/modern/exercises/CARDIO/BURPEE" {
		t.Errorf("unexpected detail page URL: %q", rec.URL)
	}
	if rec.Difficulty != "ADVANCED" || rec.Description != "A full-body movement." {
		t.Errorf("unexpected detail fields: %+v", rec)
	}
	if len(rec.PrimaryMuscles) != 1 || rec.PrimaryMuscles[0] != "QUADS" {
		t.Errorf("unexpected primary muscles: %v", rec.PrimaryMuscles)
	}
}

func TestDetailResolverThumbnailFallback(t *testing.T) {
	// Hero image is referenced but unreachable; the first video thumbnail
	// is the fallback.
	srv := newDetailServer(t, map[string]string{
		"/web-data/exercises/en-US/CARDIO/BURPEE.json": `{
			"heroImage": "/images/missing.jpg",
			"videos": [{"thumbnail": "/thumbs/a.jpg"}, {"thumbnail": "/thumbs/b.jpg"}]
		}`,
		"/thumbs/a.jpg": "jpg",
		"/thumbs/b.jpg": "jpg",
	})
	client := garmin.NewClient(
		garmin.WithBaseURL(srv.URL),
		garmin.WithVideoBaseURL(srv.URL),
		garmin.WithHTTPClient(srv.Client()),
	)
	resolver := NewDetailResolver(client, nil)

	rec := resolver.Resolve(context.Background(), "CARDIO", "BURPEE")
	if !rec.Found {
		t.Fatal("expected Found=true")
	}
	if rec.ImageURL != srv.URL+"/thumbs/a.jpg" {
		t.Errorf("expected first thumbnail, got %q", rec.ImageURL)
	}
}

func TestDetailResolverNoReachableImage(t *testing.T) {
	srv := newDetailServer(t, map[string]string{
		"/web-data/exercises/en-US/CARDIO/BURPEE.json": `{
			"heroImage": "/images/missing.jpg",
			"videos": [{"thumbnail": "/thumbs/missing.jpg"}]
		}`,
	})
	client := garmin.NewClient(
		garmin.WithBaseURL(srv.URL),
		garmin.WithVideoBaseURL(srv.URL),
		garmin.WithHTTPClient(srv.Client()),
	)
	resolver := NewDetailResolver(client, nil)

	rec := resolver.Resolve(context.Background(), "CARDIO", "BURPEE")
	if !rec.Found {
		t.Fatal("expected Found=true even with no reachable image")
	}
	if rec.ImageURL != "" {
		t.Errorf("expected empty image URL, got %q", rec.ImageURL)
	}
}
