// Package i18n holds the closed set of user-facing labels and their
// translations.
package i18n

import (
	"fmt"

	"ValueScope/internal/model"
)

// MessageID identifies one user-facing label.
type MessageID int

const (
	TitleOverview MessageID = iota
	TitleValuation
	TitleWhatIf
	TitleProjection
	TitleCommentary
	TitleRates
	TitleDigest

	CurrentPrice
	ListingPrice
	ListingYear
	PE
	ROE
	PriceToBook
	Volatility
	CAGR
	Range52w
	Sector
	Industry

	GrowthRate
	GrahamValue
	DCFValue
	IntrinsicAverage
	Gap
	Verdict

	VerdictUndervalued
	VerdictFair
	VerdictOvervalued
	VerdictNotApplicable

	StartYear
	InitialPrincipal
	MonthlyDeposit
	Period
	Year
	Realistic
	Bullish
	Bearish
	TotalPrincipal
	FinalAsset
	NetProfit
	ReturnPct

	NoteNotComputable
	NoteFund
	RatesDefault
	RatesUpdated

	ErrTickerNotFound
	ErrRateLimited
	ErrUnavailable
	ErrInvalidRequest
	ErrInternal

	HelpText
	UsageAnalyze
	Disclaimer

	numMessages
)

// All returns every defined message ID.
func All() []MessageID {
	ids := make([]MessageID, numMessages)
	for i := range ids {
		ids[i] = MessageID(i)
	}
	return ids
}

var catalogs = map[model.Language]map[MessageID]string{
	model.LangKO: ko,
	model.LangEN: en,
}

// Languages returns the supported languages.
func Languages() []model.Language {
	return []model.Language{model.LangKO, model.LangEN}
}

// T returns the label for id in lang, falling back to English.
func T(lang model.Language, id MessageID) string {
	if s, ok := catalogs[lang][id]; ok {
		return s
	}
	if s, ok := en[id]; ok {
		return s
	}
	return fmt.Sprintf("!msg(%d)", int(id))
}

// Tf formats the label for id with args.
func Tf(lang model.Language, id MessageID, args ...any) string {
	return fmt.Sprintf(T(lang, id), args...)
}

// VerdictLabel localizes a valuation verdict.
func VerdictLabel(lang model.Language, v model.Verdict) string {
	switch v {
	case model.VerdictUndervalued:
		return T(lang, VerdictUndervalued)
	case model.VerdictOvervalued:
		return T(lang, VerdictOvervalued)
	case model.VerdictFair:
		return T(lang, VerdictFair)
	default:
		return T(lang, VerdictNotApplicable)
	}
}

// ScenarioLabel localizes a simulation scenario name.
func ScenarioLabel(lang model.Language, name string) string {
	switch name {
	case "realistic":
		return T(lang, Realistic)
	case "bullish":
		return T(lang, Bullish)
	case "bearish":
		return T(lang, Bearish)
	default:
		return name
	}
}
