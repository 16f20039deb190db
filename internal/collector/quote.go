package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	yfgo "github.com/komsit37/yf-go"
	"go.uber.org/zap"

	"ValueScope/internal/model"
)

const summaryModules = "price,summaryDetail,defaultKeyStatistics,financialData,assetProfile,quoteType"

var yfSummaryModules = []yfgo.QuoteSummaryModule{
	yfgo.ModulePrice,
	yfgo.ModuleSummaryDetail,
	yfgo.ModuleDefaultKeyStatistics,
	yfgo.ModuleFinancialData,
	yfgo.ModuleAssetProfile,
	yfgo.ModuleQuoteType,
}

// Ordered JSONPath candidates for each quote field; the first present wins.
var (
	pricePaths       = []string{"$.financialData.currentPrice.raw", "$.price.regularMarketPrice.raw"}
	forwardPEPaths   = []string{"$.summaryDetail.forwardPE.raw", "$.defaultKeyStatistics.forwardPE.raw"}
	trailingPEPaths  = []string{"$.summaryDetail.trailingPE.raw"}
	roePaths         = []string{"$.financialData.returnOnEquity.raw"}
	priceToBookPaths = []string{"$.defaultKeyStatistics.priceToBook.raw"}
	high52Paths      = []string{"$.summaryDetail.fiftyTwoWeekHigh.raw"}
	low52Paths       = []string{"$.summaryDetail.fiftyTwoWeekLow.raw"}
	forwardEPSPaths  = []string{"$.defaultKeyStatistics.forwardEps.raw"}
	trailingEPSPaths = []string{"$.defaultKeyStatistics.trailingEps.raw"}
	cashflowPaths    = []string{"$.financialData.operatingCashflow.raw"}
	sharesPaths      = []string{"$.defaultKeyStatistics.sharesOutstanding.raw", "$.defaultKeyStatistics.impliedSharesOutstanding.raw"}
	earningsGrowth   = []string{"$.financialData.earningsGrowth.raw"}
	revenueGrowth    = []string{"$.financialData.revenueGrowth.raw"}
	quarterlyGrowth  = []string{"$.defaultKeyStatistics.earningsQuarterlyGrowth.raw"}

	namePaths     = []string{"$.price.longName", "$.price.shortName", "$.quoteType.longName"}
	currencyPaths = []string{"$.price.currency", "$.summaryDetail.currency", "$.financialData.financialCurrency"}
	typePaths     = []string{"$.quoteType.quoteType", "$.price.quoteType"}
	exchangePaths = []string{"$.price.exchangeName", "$.quoteType.exchange"}
	sectorPaths   = []string{"$.assetProfile.sector"}
	industryPaths = []string{"$.assetProfile.industry"}
)

type quoteSummary struct {
	QuoteSummary struct {
		Result []map[string]any `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// FetchQuote reads fundamentals from quoteSummary. A missing price is filled
// from the price lookup and then from chart metadata.
func (f *YahooFetcher) FetchQuote(ctx context.Context, ticker string) (*model.Quote, error) {
	symbol := f.yahooSymbol(ticker)
	q := &model.Quote{Symbol: symbol}

	doc, err := f.summary(ctx, symbol)
	switch {
	case errors.Is(err, ErrTickerNotFound), errors.Is(err, ErrRateLimited), errors.Is(err, context.Canceled):
		return nil, err
	case err != nil:
		f.logger.Warn("quoteSummary unavailable, using chart metadata", zap.String("symbol", symbol), zap.Error(err))
	default:
		fillQuote(q, doc)
	}

	if q.Price == nil && f.Prices != nil {
		if p, name, err := f.Prices.LookupPrice(ctx, symbol); err == nil && p != nil {
			q.Price = p
			q.PriceSource = "yf.regularMarketPrice"
			if q.Name == "" {
				q.Name = name
			}
		} else if err != nil {
			f.logger.Warn("price lookup failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}

	if q.Price == nil || q.Currency == "" || q.QuoteType == "" {
		chart, err := f.fetchChart(ctx, symbol, "1d", model.Range1d)
		if err != nil {
			if doc == nil {
				return nil, err
			}
			f.logger.Warn("chart metadata unavailable", zap.String("symbol", symbol), zap.Error(err))
		} else {
			fillFromChart(q, chart)
		}
	}

	if q.Currency == "" {
		q.Currency = "USD"
	}
	return q, nil
}

// summary reads the quoteSummary document through Summaries and falls back to
// the direct endpoint unless the ticker is unknown or the provider throttled us.
func (f *YahooFetcher) summary(ctx context.Context, symbol string) (map[string]any, error) {
	if f.Summaries == nil {
		return f.fetchSummary(ctx, symbol)
	}
	doc, err := f.Summaries.Summary(ctx, symbol)
	switch {
	case err == nil:
		return doc, nil
	case errors.Is(err, ErrTickerNotFound), errors.Is(err, ErrRateLimited), ctx.Err() != nil:
		return nil, err
	}
	f.logger.Warn("yf-go quoteSummary failed, using direct request", zap.String("symbol", symbol), zap.Error(err))
	return f.fetchSummary(ctx, symbol)
}

func (f *YahooFetcher) fetchSummary(ctx context.Context, symbol string) (map[string]any, error) {
	u := fmt.Sprintf("%s/%s?modules=%s", f.SummaryURL, url.PathEscape(symbol), summaryModules)
	body, err := f.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("yahoo quoteSummary %s: %w", symbol, err)
	}
	var qs quoteSummary
	if err := json.Unmarshal(body, &qs); err != nil {
		return nil, fmt.Errorf("yahoo quoteSummary %s: %w: decode: %v", symbol, ErrProviderUnavailable, err)
	}
	if e := qs.QuoteSummary.Error; e != nil {
		if strings.EqualFold(e.Code, "Not Found") {
			return nil, fmt.Errorf("yahoo quoteSummary %s: %w", symbol, ErrTickerNotFound)
		}
		return nil, fmt.Errorf("yahoo quoteSummary %s: %w: %s", symbol, ErrProviderUnavailable, e.Description)
	}
	if len(qs.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo quoteSummary %s: %w", symbol, ErrTickerNotFound)
	}
	return qs.QuoteSummary.Result[0], nil
}

func fillQuote(q *model.Quote, doc map[string]any) {
	var src string
	q.Price, src = lookupFloat(doc, pricePaths)
	if q.Price != nil {
		q.PriceSource = src
	}
	q.ForwardPE, _ = lookupFloat(doc, forwardPEPaths)
	q.TrailingPE, _ = lookupFloat(doc, trailingPEPaths)
	q.ReturnOnEquity, _ = lookupFloat(doc, roePaths)
	q.PriceToBook, _ = lookupFloat(doc, priceToBookPaths)
	q.High52w, _ = lookupFloat(doc, high52Paths)
	q.Low52w, _ = lookupFloat(doc, low52Paths)
	q.ForwardEPS, _ = lookupFloat(doc, forwardEPSPaths)
	q.TrailingEPS, _ = lookupFloat(doc, trailingEPSPaths)
	q.OperatingCashflow, _ = lookupFloat(doc, cashflowPaths)
	q.SharesOutstanding, _ = lookupFloat(doc, sharesPaths)
	q.EarningsGrowth, _ = lookupFloat(doc, earningsGrowth)
	q.RevenueGrowth, _ = lookupFloat(doc, revenueGrowth)
	q.EarningsQuarterlyGrowth, _ = lookupFloat(doc, quarterlyGrowth)

	q.Name = lookupString(doc, namePaths)
	q.Currency = strings.ToUpper(lookupString(doc, currencyPaths))
	q.QuoteType = strings.ToUpper(lookupString(doc, typePaths))
	q.Exchange = lookupString(doc, exchangePaths)
	q.Sector = lookupString(doc, sectorPaths)
	q.Industry = lookupString(doc, industryPaths)
}

func fillFromChart(q *model.Quote, chart *yahooChart) {
	meta := chart.Chart.Result[0].Meta
	if q.Price == nil && meta.RegularMarketPrice != nil {
		q.Price = meta.RegularMarketPrice
		q.PriceSource = "chart.regularMarketPrice"
	}
	if q.Currency == "" {
		q.Currency = strings.ToUpper(meta.Currency)
	}
	if q.QuoteType == "" {
		q.QuoteType = strings.ToUpper(meta.InstrumentType)
	}
	if q.Name == "" {
		if meta.LongName != "" {
			q.Name = meta.LongName
		} else {
			q.Name = meta.ShortName
		}
	}
}

// lookupFloat evaluates paths in order and returns the first numeric hit with its path.
func lookupFloat(doc map[string]any, paths []string) (*float64, string) {
	candidates := make([]model.Candidate, 0, len(paths))
	for _, path := range paths {
		candidates = append(candidates, model.Candidate{Source: path, Value: evalFloat(doc, path)})
	}
	v, src, ok := model.Resolve(candidates...)
	if !ok {
		return nil, ""
	}
	return &v, src
}

func evalFloat(doc map[string]any, path string) *float64 {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil
	}
	if list, ok := v.([]any); ok && len(list) > 0 {
		v = list[0]
	}
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}

func lookupString(doc map[string]any, paths []string) string {
	for _, path := range paths {
		v, err := jsonpath.Get(path, doc)
		if err != nil {
			continue
		}
		if list, ok := v.([]any); ok && len(list) > 0 {
			v = list[0]
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// PriceLookup resolves a current price and display name for a symbol.
type PriceLookup interface {
	LookupPrice(ctx context.Context, symbol string) (*float64, string, error)
}

// yfPriceLookup reads the quoteSummary price module through yf-go, which
// handles Yahoo's cookie and crumb handshake.
type yfPriceLookup struct {
	client *yfgo.Client
}

func (l *yfPriceLookup) LookupPrice(ctx context.Context, symbol string) (*float64, string, error) {
	res, err := l.client.QuoteSummaryTyped(ctx, symbol, []yfgo.QuoteSummaryModule{yfgo.ModulePrice})
	if err != nil {
		return nil, "", err
	}
	if res.Price == nil {
		return nil, "", fmt.Errorf("no price for %s", symbol)
	}
	name := res.Price.LongName
	if name == "" {
		name = res.Price.ShortName
	}
	return res.Price.RegularMarketPrice.Raw, name, nil
}

// SummarySource returns the first quoteSummary result object for a symbol.
type SummarySource interface {
	Summary(ctx context.Context, symbol string) (map[string]any, error)
}

// yfSummarySource fetches the full module set through yf-go.
type yfSummarySource struct {
	client *yfgo.Client
}

func (s *yfSummarySource) Summary(ctx context.Context, symbol string) (map[string]any, error) {
	raw, err := s.client.QuoteSummary(ctx, symbol, yfSummaryModules)
	if err != nil {
		return nil, classifyYF(symbol, err)
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("yf-go quoteSummary %s: %w: unexpected result %T", symbol, ErrProviderUnavailable, raw)
	}
	return doc, nil
}

// classifyYF maps yf-go error text onto the provider sentinels. yf-go reports
// HTTP failures as "yahoo finance error: <status>: <body>".
func classifyYF(symbol string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	msg := strings.ToLower(err.Error())
	kind := ErrProviderUnavailable
	switch {
	case strings.Contains(msg, "crumb"):
		// handshake failures say nothing about the symbol
	case strings.Contains(msg, "429"), strings.Contains(msg, "too many requests"):
		kind = ErrRateLimited
	case strings.Contains(msg, "404"), strings.Contains(msg, "not found"), strings.Contains(msg, "no results returned"):
		kind = ErrTickerNotFound
	}
	return fmt.Errorf("yf-go quoteSummary %s: %w: %v", symbol, kind, err)
}
