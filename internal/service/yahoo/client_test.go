package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestQuoteParsesFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v7/finance/quote" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbols"); got != "NVDA" {
			t.Errorf("unexpected symbols param %s", got)
		}
		w.Write([]byte(`{"quoteResponse":{"result":[{
			"symbol":"NVDA",
			"regularMarketPrice":892.5,
			"regularMarketPreviousClose":880.0,
			"regularMarketChangePercent":1.42,
			"fiftyTwoWeekHigh":974.0,
			"fiftyTwoWeekLow":390.0,
			"trailingPE":72.3,
			"forwardPE":35.1,
			"marketCap":2230000000000
		}],"error":null}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	q, err := c.Quote(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.CurrentPrice == nil || *q.CurrentPrice != 892.5 {
		t.Fatalf("unexpected current price %v", q.CurrentPrice)
	}
	if q.PERatio == nil || *q.PERatio != 72.3 {
		t.Fatalf("unexpected pe ratio %v", q.PERatio)
	}
	if q.ChangePct == nil || *q.ChangePct != 1.42 {
		t.Fatalf("unexpected change pct %v", q.ChangePct)
	}
}

func TestQuoteMissingFieldsStayNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteResponse":{"result":[{"symbol":"BRK-A","regularMarketPrice":613000.0}],"error":null}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	q, err := c.Quote(context.Background(), "BRK-A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.PERatio != nil || q.MarketCap != nil {
		t.Fatal("absent fields should remain nil")
	}
}

func TestQuoteEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteResponse":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	if _, err := c.Quote(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected error for empty result")
	}
}

func TestQuoteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteResponse":{"result":[],"error":{"code":"Bad Request","description":"invalid symbol"}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	if _, err := c.Quote(context.Background(), "???"); err == nil {
		t.Fatal("expected error from api error payload")
	}
}

func TestQuoteUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	if _, err := c.Quote(context.Background(), "NVDA"); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestHistorySkipsNullCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/NVDA" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("range"); got != "3mo" {
			t.Errorf("unexpected range %s", got)
		}
		if got := r.URL.Query().Get("interval"); got != "1d" {
			t.Errorf("unexpected interval %s", got)
		}
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[1700000000,1700086400,1700172800],
			"indicators":{"quote":[{
				"close":[100.0,null,104.0],
				"volume":[1000,null,1200],
				"open":[99.0,null,103.0],
				"high":[101.0,null,105.0],
				"low":[98.0,null,102.0]
			}]}
		}],"error":null}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	bars, err := c.History(context.Background(), "NVDA", "3mo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars after null skip, got %d", len(bars))
	}
	if bars[0].Close != 100.0 || bars[1].Close != 104.0 {
		t.Fatalf("unexpected closes %v %v", bars[0].Close, bars[1].Close)
	}
	if bars[1].Volume != 1200 {
		t.Fatalf("unexpected volume %v", bars[1].Volume)
	}
}

func TestHistoryNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	if _, err := c.History(context.Background(), "NOPE", "1mo"); err == nil {
		t.Fatal("expected error for empty chart result")
	}
}
