package models

import "errors"

// Типизированные ошибки ядра. Наружу уходят только они,
// никакие криптографические/парсинговые паники не пробрасываем.
var (
	ErrMalformedToken  = errors.New("license token malformed")
	ErrInvalidToken    = errors.New("license token signature invalid")
	ErrExpired         = errors.New("license expired")
	ErrTierMismatch    = errors.New("license tier unknown")
	ErrNoLicense       = errors.New("no active license")
	ErrTradingDisabled = errors.New("trading disabled")
	ErrMaxTradesReached = errors.New("max concurrent trades reached")
	ErrAlreadyClosed   = errors.New("position already closed")
	ErrProviderUnavailable = errors.New("market data provider unavailable")
)
