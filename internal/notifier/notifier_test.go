package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ValueScope/internal/currency"
	"ValueScope/internal/model"
)

func newTestNotifier(url string) *TelegramNotifier {
	tn := NewTelegramNotifier("TOKEN", "42", "", nil)
	tn.APIURL = url
	tn.Backoff = time.Millisecond
	return tn
}

func TestSend_PostsHTMLMessage(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	if err := newTestNotifier(srv.URL).Send(context.Background(), "<b>hi</b>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["chat_id"] != "42" || got["text"] != "<b>hi</b>" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload: %v", got)
	}
}

func TestSendWithRetry_RecoversAfterFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	if err := newTestNotifier(srv.URL).SendWithRetry(context.Background(), "x", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := newTestNotifier(srv.URL).SendWithRetry(context.Background(), "x", 1)
	if err == nil || !strings.Contains(err.Error(), "all 2 retries exhausted") {
		t.Fatalf("expected exhausted error, got %v", err)
	}
}

func TestSendWithRetry_StopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tn := newTestNotifier(srv.URL)
	tn.Backoff = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if err := tn.SendWithRetry(ctx, "x", 5); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStartPolling_DispatchesCommands(t *testing.T) {
	var polls int32
	replies := make(chan map[string]string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if atomic.AddInt32(&polls, 1) == 1 {
				w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /help ","chat":{"id":99}}}]}`))
				return
			}
			if r.URL.Query().Get("offset") != "8" {
				t.Errorf("expected offset 8, got %s", r.URL.Query().Get("offset"))
			}
			<-r.Context().Done()
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			replies <- body
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tn := newTestNotifier(srv.URL)
	done := make(chan struct{})
	go func() {
		tn.StartPolling(ctx, func(_ context.Context, cmd string) string { return "reply to " + cmd })
		close(done)
	}()

	select {
	case body := <-replies:
		if body["chat_id"] != "99" || body["text"] != "reply to /help" {
			t.Errorf("unexpected reply: %v", body)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop")
	}
}

func sampleReport() *model.Report {
	return &model.Report{
		RunID:           "run",
		Ticker:          "ACME",
		DisplayCurrency: "USD",
		Language:        model.LangEN,
		GeneratedAt:     time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC),
		RatesSource:     currency.SourceLive,
		Overview: model.Overview{
			Name:           "Acme <Corp>",
			Kind:           string(model.KindEquity),
			Sector:         "Technology",
			NativeCurrency: "USD",
			Price:          model.Float(100),
			PE:             model.Float(18),
			ROEPct:         model.Float(21),
			VolatilityPct:  model.Float(25),
			CAGRPct:        model.Float(8),
			ListingYear:    2010,
			ListingPrice:   model.Float(20),
		},
		Growth: model.GrowthEstimate{Rate: 8},
		Valuation: model.IntrinsicValue{
			Graham:  model.Float(122.5),
			DCF:     model.Float(80),
			Average: model.Float(101.25),
			GapPct:  model.Float(-1.23),
			Verdict: model.VerdictFair,
		},
		Replay: &model.ReplayResult{
			Start:          time.Date(2010, 1, 4, 0, 0, 0, 0, time.UTC),
			Contributions:  174,
			TotalPrincipal: 35800,
			FinalValue:     90000,
			NetProfit:      54200,
			ReturnPct:      151.4,
		},
		Projection: &model.Projection{
			Years:     1,
			Principal: []float64{1000, 3400},
			Paths: []model.ScenarioPath{
				{Name: "realistic", Values: []float64{1000, 3600}},
				{Name: "bullish", Values: []float64{1000, 3800}},
				{Name: "bearish", Values: []float64{1000, 3300}},
			},
		},
	}
}

func TestFormatReport(t *testing.T) {
	msg := FormatReport(sampleReport())
	for _, want := range []string{
		"ACME Analysis",
		"Acme &lt;Corp&gt;",
		"Current Price: $100.00",
		"Graham Value: $122.50",
		"-1.2% → <b>Fair Value</b>",
		"Total Principal: $35,800",
		"Net Profit: $54,200 (+151.4%)",
		"Bearish: $3,300",
		"Net Profit -$100",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("report missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "live rates unavailable") {
		t.Error("unexpected default-rates warning for live table")
	}
}

func TestFormatReport_MissingSections(t *testing.T) {
	r := sampleReport()
	r.Language = model.LangKO
	r.Overview.Kind = string(model.KindFund)
	r.Overview.PE = nil
	r.Valuation = model.IntrinsicValue{Verdict: model.VerdictNotApplicable, Skipped: "fund"}
	r.Replay = nil
	r.Projection = nil
	r.DisplayCurrency = "KRW"
	r.RatesSource = currency.SourceDefault

	msg := FormatReport(r)
	for _, want := range []string{"PER: -", "해당 없음", "펀드/ETF", "계산할 수 없음", "기본 환율"} {
		if !strings.Contains(msg, want) {
			t.Errorf("report missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatRates(t *testing.T) {
	table := &currency.Table{Rates: currency.DefaultRates(), FetchedAt: time.Date(2024, 6, 28, 9, 0, 0, 0, time.UTC), Source: currency.SourceDefault}
	msg := FormatRates(table, model.LangEN)
	if !strings.Contains(msg, "KRW: 1400.0000") || !strings.Contains(msg, "2024-06-28 09:00") {
		t.Errorf("unexpected rates message:\n%s", msg)
	}
	if strings.Index(msg, "CAD:") > strings.Index(msg, "USD:") {
		t.Error("expected codes in sorted order")
	}
	if !strings.Contains(msg, "default table") {
		t.Error("expected default table warning")
	}
}

func TestFormatDigest(t *testing.T) {
	msg := FormatDigest([]DigestLine{
		{Ticker: "ACME", Report: sampleReport()},
		{Ticker: "NOPE", Error: "Ticker not found."},
	}, model.LangEN)
	if !strings.Contains(msg, "🟡 <b>ACME</b> $100.00") {
		t.Errorf("missing report line:\n%s", msg)
	}
	if !strings.Contains(msg, "❌ <b>NOPE</b>: Ticker not found.") {
		t.Errorf("missing failure line:\n%s", msg)
	}
}
