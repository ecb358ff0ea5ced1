package lyrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ewilliams-labs/typetune/internal/adapters/breaker"
	"github.com/ewilliams-labs/typetune/internal/core/domain"
)

func TestClient_Lyrics(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		responseBody string
		want         string
		wantErr      error
	}{
		{
			name:         "Success",
			status:       http.StatusOK,
			responseBody: `{"title":"Kyoto","author":"Phoebe Bridgers","lyrics":"Day off in Kyoto"}`,
			want:         "Day off in Kyoto",
		},
		{
			name:         "Not found status",
			status:       http.StatusNotFound,
			responseBody: `{"error":"Sorry I couldn't find that song's lyrics"}`,
			wantErr:      domain.ErrLyricsNotFound,
		},
		{
			name:         "Empty lyrics",
			status:       http.StatusOK,
			responseBody: `{"title":"Kyoto","lyrics":""}`,
			wantErr:      domain.ErrLyricsNotFound,
		},
		{
			name:         "Undecodable body",
			status:       http.StatusBadGateway,
			responseBody: `<html>bad gateway</html>`,
			wantErr:      domain.ErrBadResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotTitle, gotArtist, gotAuth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/lyrics" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				gotTitle = r.URL.Query().Get("title")
				gotArtist = r.URL.Query().Get("artist")
				gotAuth = r.Header.Get("Authorization")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "key-1", srv.Client(), breaker.Config{FailureThreshold: 5, OpenTimeout: time.Minute})
			got, err := client.Lyrics(context.Background(), "Kyoto", "Phoebe Bridgers")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("lyrics: got %q, want %q", got, tt.want)
			}
			if gotTitle != "Kyoto" || gotArtist != "Phoebe Bridgers" || gotAuth != "key-1" {
				t.Fatalf("request: title=%q artist=%q auth=%q", gotTitle, gotArtist, gotAuth)
			}
		})
	}
}

func TestClient_BreakerIgnoresNotFound(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", srv.Client(), breaker.Config{FailureThreshold: 1, OpenTimeout: time.Minute})
	for i := 0; i < 3; i++ {
		if _, err := client.Lyrics(context.Background(), "a", "b"); !errors.Is(err, domain.ErrLyricsNotFound) {
			t.Fatalf("attempt %d: expected ErrLyricsNotFound, got %v", i, err)
		}
	}
	if calls != 3 {
		t.Fatalf("expected every lookup to reach the api, got %d calls", calls)
	}
}

func TestClient_BreakerOpensOnFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", srv.Client(), breaker.Config{FailureThreshold: 2, OpenTimeout: time.Minute})
	for i := 0; i < 2; i++ {
		_, _ = client.Lyrics(context.Background(), "a", "b")
	}
	if _, err := client.Lyrics(context.Background(), "a", "b"); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
}
