package directory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupDecodesFirstEntry(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("name"); got != "Ada Lovelace" {
			t.Errorf("name query = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"Ada Lovelace","description":"Analyst","image_url":"https://img/ada.png"},{"name":"other"}]`))
	})

	c := NewClient(Config{Endpoint: srv.URL + "/instructor_details/"})
	p, err := c.Lookup(context.Background(), "Ada Lovelace")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if p.Name != "Ada Lovelace" || p.Description != "Analyst" || p.ImageURL != "https://img/ada.png" {
		t.Errorf("profile = %+v", p)
	}
}

func TestLookupDefaultAvatar(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"Grace","description":"Admiral","image_url":null}]`))
	})

	c := NewClient(Config{Endpoint: srv.URL, DefaultAvatar: "https://img/default.png"})
	p, err := c.Lookup(context.Background(), "Grace")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if p.ImageURL != "https://img/default.png" {
		t.Errorf("image = %q, want default avatar", p.ImageURL)
	}
}

func TestLookupErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		notFound bool
	}{
		{"empty result", http.StatusOK, `[]`, true},
		{"404", http.StatusNotFound, ``, true},
		{"server error", http.StatusInternalServerError, `boom`, false},
		{"bad json", http.StatusOK, `{"name":`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := NewClient(Config{Endpoint: srv.URL}).Lookup(context.Background(), "x")
			if err == nil {
				t.Fatalf("expected an error")
			}
			if errors.Is(err, ErrNotFound) != tt.notFound {
				t.Errorf("errors.Is(err, ErrNotFound) = %v for %v", !tt.notFound, err)
			}
		})
	}
}

func TestLookupNotConfigured(t *testing.T) {
	if _, err := NewClient(Config{}).Lookup(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v", err)
	}
}

func TestLookupHonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewClient(Config{Endpoint: srv.URL}).Lookup(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSharedLookupSurvivesCancelledCaller(t *testing.T) {
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	var hits atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		started <- struct{}{}
		<-release
		w.Write([]byte(`[{"name":"Ada","image_url":"https://img/ada.png"}]`))
	})
	c := NewClient(Config{Endpoint: srv.URL, Timeout: 5 * time.Second})

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Lookup(first, "Ada")
		firstErr <- err
	}()
	<-started

	second := make(chan Profile, 1)
	secondErr := make(chan error, 1)
	go func() {
		p, err := c.Lookup(context.Background(), "Ada")
		second <- p
		secondErr <- err
	}()
	// let the second caller join the request in flight
	time.Sleep(50 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("first caller err = %v, want context.Canceled", err)
	}

	close(release)
	if err := <-secondErr; err != nil {
		t.Fatalf("second caller should not inherit the cancellation: %v", err)
	}
	if p := <-second; p.Name != "Ada" {
		t.Errorf("profile = %+v", p)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("requests = %d, want 1 shared request", n)
	}
}
