package helper

import (
	"math"
	"strings"
)

// NormTF приводит таймфрейм к формату провайдера ("60min", "daily").
func NormTF(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	switch s {
	case "1m", "1min":
		return "1min"
	case "5m", "5min":
		return "5min"
	case "15m", "15min":
		return "15min"
	case "1h", "60m", "60min":
		return "60min"
	case "4h":
		return "240min"
	case "d", "1d", "daily":
		return "daily"
	default:
		return s
	}
}

// SplitPair режет "EURUSD" на base/quote.
func SplitPair(pair string) (base, quote string, ok bool) {
	p := strings.ToUpper(strings.TrimSpace(pair))
	if len(p) != 6 {
		return "", "", false
	}
	return p[:3], p[3:], true
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round5 — точность котировок, 5 знаков.
func Round5(v float64) float64 {
	return math.Round(v*100000) / 100000
}
