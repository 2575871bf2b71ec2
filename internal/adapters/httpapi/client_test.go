package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"revenue_optimizer/internal/adapters/httpapi"
)

func TestGetJSON_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 123.0})
		}
	}))
	defer ts.Close()

	cl := httpapi.New("test", 100, nil) // high RPS for tests
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var got map[string]any
	if err := cl.GetJSON(ctx, "thing", ts.URL, &got); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	id, ok := got["id"].(float64)
	if !ok || int(id) != 123 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestGetJSON_SentinelErrors(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{404, httpapi.ErrNotFound},
		{401, httpapi.ErrUnauthorized},
		{403, httpapi.ErrForbidden},
	}
	for _, tc := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		cl := httpapi.New("test", 100, nil)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)

		var out map[string]any
		err := cl.GetJSON(ctx, "thing", ts.URL, &out)
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: err = %v, want %v", tc.status, err, tc.want)
		}
		cancel()
		ts.Close()
	}
}

func TestGetJSON_AttachesHeaders(t *testing.T) {
	var gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		w.WriteHeader(204)
	}))
	defer ts.Close()

	cl := httpapi.New("test", 100, map[string]string{"X-API-Key": "secret"})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := cl.GetJSON(ctx, "thing", ts.URL, nil); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gotKey != "secret" {
		t.Fatalf("X-API-Key = %q", gotKey)
	}
}
