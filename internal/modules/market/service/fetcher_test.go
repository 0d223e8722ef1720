package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func klinesBody(n int) string {
	rows := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ts := 1700000000000 + int64(i)*3600_000
		px := 100 + float64(i)*0.1
		rows = append(rows, fmt.Sprintf(`[%d,"%.2f","%.2f","%.2f","%.2f","1.0"]`,
			ts, px, px+1, px-1, px+0.5))
	}
	return "[" + strings.Join(rows, ",") + "]"
}

func testProvider(name string, srv *httptest.Server) Provider {
	return Provider{
		Name:  name,
		Shape: ShapeRows,
		BuildURL: func(instrument, interval string, limit int) string {
			return srv.URL + "/klines"
		},
	}
}

func TestFetchSkipsShortSeriesProvider(t *testing.T) {
	short := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, klinesBody(10)) // < 30 свечей — должен быть пропущен
	}))
	defer short.Close()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, klinesBody(60))
	}))
	defer good.Close()

	f := NewFetcher([]Provider{testProvider("short", short), testProvider("good", good)})
	candles, err := f.Fetch(context.Background(), "BTCUSDT", "1h", 120)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(candles) != 60 {
		t.Fatalf("got %d candles, want 60 (from the good provider)", len(candles))
	}
}

func TestFetchAllSourcesExhausted(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer down.Close()

	malformed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"oops":true}`)
	}))
	defer malformed.Close()

	f := NewFetcher([]Provider{testProvider("down", down), testProvider("bad", malformed)})
	_, err := f.Fetch(context.Background(), "BTCUSDT", "1h", 120)
	if !errors.Is(err, ErrAllSourcesExhausted) {
		t.Fatalf("err = %v, want ErrAllSourcesExhausted", err)
	}
}

func TestFetchTruncatesToLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, klinesBody(200))
	}))
	defer srv.Close()

	f := NewFetcher([]Provider{testProvider("big", srv)})
	candles, err := f.Fetch(context.Background(), "BTCUSDT", "1h", 120)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(candles) != 120 {
		t.Fatalf("got %d candles, want 120", len(candles))
	}
	// обрезали старые, хвост остался самым свежим
	if candles[len(candles)-1].TS != 1700000000000+199*3600_000 {
		t.Fatalf("tail is not the newest candle: %d", candles[len(candles)-1].TS)
	}
}

func TestFetchFirstSuccessShortCircuits(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, klinesBody(50))
	}))
	defer srv.Close()

	f := NewFetcher([]Provider{testProvider("a", srv), testProvider("b", srv)})
	if _, err := f.Fetch(context.Background(), "BTCUSDT", "1h", 120); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if hits != 1 {
		t.Fatalf("providers hit %d times, want 1", hits)
	}
}
