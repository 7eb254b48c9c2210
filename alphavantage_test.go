package stockfolio

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newAlphaVantageServer serves canned Alpha Vantage responses and returns a
// source pointed at it, bypassing the disk cache.
func newAlphaVantageServer(t *testing.T, handler http.HandlerFunc) *AlphaVantage {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &AlphaVantage{
		key:     "demo",
		baseURL: srv.URL,
		client:  srv.Client(),
		series:  make(map[string][]quote),
		matches: make(map[string]Instrument),
	}
}

func alphaHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") == "" {
			t.Error("request carries no api key")
		}
		switch r.URL.Query().Get("function") {
		case "TIME_SERIES_DAILY":
			if r.URL.Query().Get("symbol") != "AAPL" {
				fmt.Fprint(w, `{"Error Message": "Invalid API call."}`)
				return
			}
			fmt.Fprint(w, `{
				"Time Series (Daily)": {
					"2025-03-03": {"4. close": "100.50"},
					"2025-03-04": {"4. close": "101.25"},
					"2025-03-06": {"4. close": "99.75"}
				}
			}`)
		case "SYMBOL_SEARCH":
			fmt.Fprint(w, `{
				"bestMatches": [
					{"1. symbol": "AAPL", "2. name": "Apple Inc", "4. region": "United States"}
				]
			}`)
		default:
			t.Errorf("unexpected function %q", r.URL.Query().Get("function"))
		}
	}
}

func TestAlphaVantage_Stock(t *testing.T) {
	a := newAlphaVantageServer(t, alphaHandler(t))

	inst, err := a.Stock("AAPL")
	if err != nil {
		t.Fatalf("Stock: %v", err)
	}
	if inst.Symbol() != "AAPL" || inst.Name() != "Apple Inc" || inst.Exchange() != "United States" {
		t.Errorf("Stock = %v %q %q", inst, inst.Name(), inst.Exchange())
	}

	if _, err := a.Stock("ZZZ"); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("Stock(ZZZ) error = %v, want ErrUnknownSymbol", err)
	}
}

func TestAlphaVantage_Price(t *testing.T) {
	a := newAlphaVantageServer(t, alphaHandler(t))

	tests := []struct {
		name         string
		on           Date
		preferFuture bool
		want         Money
		err          error
	}{
		{"exact", NewDate(2025, time.March, 4), false, USD(101.25), nil},
		{"nearest past", NewDate(2025, time.March, 5), false, USD(101.25), nil},
		{"nearest future", NewDate(2025, time.March, 5), true, USD(99.75), nil},
		{"before the series", NewDate(2025, time.March, 1), false, Money{}, ErrPriceSource},
		{"after the series", NewDate(2025, time.March, 10), true, Money{}, ErrPriceSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Price("AAPL", tt.on, tt.preferFuture)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Price error = %v, want %v", err, tt.err)
			}
			if err == nil && !got.Equal(tt.want) {
				t.Errorf("Price = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAlphaVantage_IPODate(t *testing.T) {
	a := newAlphaVantageServer(t, alphaHandler(t))
	ipo, err := a.IPODate("AAPL")
	if err != nil {
		t.Fatalf("IPODate: %v", err)
	}
	if want := NewDate(2025, time.March, 3); ipo != want {
		t.Errorf("IPODate = %s, want %s", ipo, want)
	}
}

// A stale series reads as delisted on its last quoted day.
func TestAlphaVantage_DelistingDate(t *testing.T) {
	a := newAlphaVantageServer(t, alphaHandler(t))
	delisting, err := a.DelistingDate("AAPL")
	if err != nil {
		t.Fatalf("DelistingDate: %v", err)
	}
	if want := NewDate(2025, time.March, 6); delisting != want {
		t.Errorf("DelistingDate = %s, want %s", delisting, want)
	}
}

func TestAlphaVantage_UnknownSymbol(t *testing.T) {
	a := newAlphaVantageServer(t, alphaHandler(t))
	if _, err := a.Price("ZZZ", NewDate(2025, time.March, 4), false); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("Price(ZZZ) error = %v, want ErrUnknownSymbol", err)
	}
}

// Rate-limit notes come back as 200s with a Note body; they must surface as
// price source failures, not as empty series.
func TestAlphaVantage_RateLimitNote(t *testing.T) {
	a := newAlphaVantageServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`)
	})
	if _, err := a.Price("AAPL", NewDate(2025, time.March, 4), false); !errors.Is(err, ErrPriceSource) {
		t.Errorf("error = %v, want ErrPriceSource", err)
	}
}

// The series is fetched once and served from memory afterwards.
func TestAlphaVantage_CachesSeries(t *testing.T) {
	calls := 0
	base := alphaHandler(t)
	a := newAlphaVantageServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		base(w, r)
	})

	for i := 0; i < 3; i++ {
		if _, err := a.Price("AAPL", NewDate(2025, time.March, 4), false); err != nil {
			t.Fatalf("Price: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("served %d requests, want 1", calls)
	}
}
