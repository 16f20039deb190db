package analysis

import (
	"errors"
	"strings"

	"ValueScope/internal/collector"
	"ValueScope/internal/i18n"
	"ValueScope/internal/model"
)

// UserMessage maps a Run error to a localized, actionable message.
func UserMessage(err error, lang model.Language) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidRequest):
		return i18n.Tf(lang, i18n.ErrInvalidRequest, strings.TrimPrefix(err.Error(), ErrInvalidRequest.Error()+": "))
	case errors.Is(err, collector.ErrTickerNotFound), errors.Is(err, collector.ErrNoData):
		return i18n.T(lang, i18n.ErrTickerNotFound)
	case errors.Is(err, collector.ErrRateLimited):
		return i18n.T(lang, i18n.ErrRateLimited)
	case errors.Is(err, collector.ErrProviderUnavailable):
		return i18n.T(lang, i18n.ErrUnavailable)
	default:
		return i18n.T(lang, i18n.ErrInternal)
	}
}

// Retryable reports whether retrying the same request later may succeed.
func Retryable(err error) bool {
	return errors.Is(err, collector.ErrRateLimited) || errors.Is(err, collector.ErrProviderUnavailable)
}
