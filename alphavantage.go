package stockfolio

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"github.com/phuslu/log"
)

const alphaVantageURL = "https://www.alphavantage.co/query"

// staleDays is how long a daily series may go without a quote before the
// instrument is considered delisted.
const staleDays = 14

// AlphaVantage is a PriceSource backed by the Alpha Vantage daily time
// series API. Responses are cached on disk with a per-day key, so repeated
// lookups within the same day cost a single HTTP round trip per symbol.
type AlphaVantage struct {
	key     string
	baseURL string
	client  *http.Client

	series  map[string][]quote // ascending by date
	matches map[string]Instrument
}

// NewAlphaVantage creates a price source using the given API key and a
// disk cache under cacheDir (the OS temp dir when empty).
func NewAlphaVantage(key, cacheDir string) *AlphaVantage {
	if cacheDir == "" {
		cacheDir = os.TempDir()
	}
	client := &http.Client{Transport: &diskCache{base: http.DefaultTransport, dir: cacheDir}}
	return &AlphaVantage{
		key:     key,
		baseURL: alphaVantageURL,
		client:  client,
		series:  make(map[string][]quote),
		matches: make(map[string]Instrument),
	}
}

// diskCache implements a simple disk cache for HTTP responses.
type diskCache struct {
	base http.RoundTripper
	dir  string
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	// The key includes the day, so the local cache expires daily.
	key := fmt.Sprintf("%s %s %s", Today(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	if cached, err := c.get(key, req); err == nil {
		return cached, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("host", resp.Request.URL.Host).Str("status", resp.Status).Msg("fetched")
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		log.Warn().Err(err).Msg("cache write failed (ignored)")
	}
	return resp, nil
}

func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0644)
}

// jwget performs an HTTP GET and unmarshals the JSON response into data.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPriceSource, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %v: %v", ErrPriceSource, resp.Request.URL.Host, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPriceSource, err)
	}
	if err := json.Unmarshal(body, data); err != nil {
		return fmt.Errorf("%w: %v", ErrPriceSource, err)
	}
	return nil
}

func (a *AlphaVantage) query(params url.Values) string {
	params.Set("apikey", a.key)
	return a.baseURL + "?" + params.Encode()
}

// daily returns the symbol's quote series, fetching it on first use.
func (a *AlphaVantage) daily(symbol string) ([]quote, error) {
	if qs, ok := a.series[symbol]; ok {
		return qs, nil
	}

	var payload struct {
		ErrorMessage string                       `json:"Error Message"`
		Note         string                       `json:"Note"`
		Information  string                       `json:"Information"`
		Series       map[string]map[string]string `json:"Time Series (Daily)"`
	}
	addr := a.query(url.Values{
		"function":   {"TIME_SERIES_DAILY"},
		"symbol":     {symbol},
		"outputsize": {"full"},
	})
	if err := jwget(a.client, addr, &payload); err != nil {
		return nil, err
	}
	if payload.ErrorMessage != "" {
		return nil, fmt.Errorf("%w: %q: %s", ErrUnknownSymbol, symbol, payload.ErrorMessage)
	}
	if msg := payload.Note + payload.Information; len(payload.Series) == 0 && msg != "" {
		return nil, fmt.Errorf("%w: %s", ErrPriceSource, msg)
	}

	qs := make([]quote, 0, len(payload.Series))
	for day, fields := range payload.Series {
		on, err := Parse(day)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q in series for %s", ErrPriceSource, day, symbol)
		}
		price, err := ParseMoney(fields["4. close"])
		if err != nil {
			return nil, fmt.Errorf("%w: bad close price for %s on %s", ErrPriceSource, symbol, day)
		}
		qs = append(qs, quote{on: on, price: price})
	}
	sort.Slice(qs, func(i, j int) bool { return qs[i].on.Before(qs[j].on) })
	log.Debug().Str("symbol", symbol).Int("quotes", len(qs)).Msg("daily series loaded")
	a.series[symbol] = qs
	return qs, nil
}

// Stock resolves the instrument reference through the symbol search
// endpoint. Alpha Vantage reports no exchange code, so the listing region
// stands in for the exchange field.
func (a *AlphaVantage) Stock(symbol string) (Instrument, error) {
	if inst, ok := a.matches[symbol]; ok {
		return inst, nil
	}

	var payload struct {
		BestMatches []map[string]string `json:"bestMatches"`
	}
	addr := a.query(url.Values{
		"function": {"SYMBOL_SEARCH"},
		"keywords": {symbol},
	})
	if err := jwget(a.client, addr, &payload); err != nil {
		return Instrument{}, err
	}
	for _, m := range payload.BestMatches {
		if m["1. symbol"] == symbol {
			inst := NewInstrument(symbol, m["2. name"], m["4. region"])
			a.matches[symbol] = inst
			return inst, nil
		}
	}
	return Instrument{}, fmt.Errorf("%w: %q", ErrUnknownSymbol, symbol)
}

func (a *AlphaVantage) IPODate(symbol string) (Date, error) {
	qs, err := a.daily(symbol)
	if err != nil {
		return Date{}, err
	}
	if len(qs) == 0 {
		return Date{}, fmt.Errorf("%w: empty series for %q", ErrPriceSource, symbol)
	}
	return qs[0].on, nil
}

// DelistingDate reports the last quoted day when the series has gone stale,
// otherwise a zero date (still listed). The daily feed carries no listing
// metadata, so staleness is the only delisting signal available.
func (a *AlphaVantage) DelistingDate(symbol string) (Date, error) {
	qs, err := a.daily(symbol)
	if err != nil {
		return Date{}, err
	}
	if len(qs) == 0 {
		return Date{}, fmt.Errorf("%w: empty series for %q", ErrPriceSource, symbol)
	}
	last := qs[len(qs)-1].on
	if last.AddDays(staleDays).Before(Today()) {
		return last, nil
	}
	return Date{}, nil
}

func (a *AlphaVantage) Price(symbol string, on Date, preferFuture bool) (Money, error) {
	qs, err := a.daily(symbol)
	if err != nil {
		return Money{}, err
	}
	i := sort.Search(len(qs), func(i int) bool { return !qs[i].on.Before(on) })
	if i < len(qs) && qs[i].on == on {
		return qs[i].price, nil
	}
	if preferFuture {
		if i < len(qs) {
			return qs[i].price, nil
		}
	} else if i > 0 {
		return qs[i-1].price, nil
	}
	return Money{}, fmt.Errorf("%w: no quote for %q on or %s %s", ErrPriceSource, symbol, direction(preferFuture), on)
}

var _ PriceSource = (*AlphaVantage)(nil)
