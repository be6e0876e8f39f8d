package models

import "time"

type Tier string

const (
	TierBasic        Tier = "basic"
	TierPremium      Tier = "premium"
	TierProfessional Tier = "professional"
)

type LicenseStatus string

const (
	LicensePending LicenseStatus = "pending"
	LicenseActive  LicenseStatus = "active"
	LicenseExpired LicenseStatus = "expired"
	LicenseRevoked LicenseStatus = "revoked"
)

// LicensePayload — то, что подписываем. После подписи не меняется.
type LicensePayload struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Tier      Tier      `json:"license_type"`
	IssuedAt  time.Time `json:"issued"`
	ExpiresAt time.Time `json:"expires"`
	Features  []string  `json:"features"`
	MaxTrades int       `json:"max_trades"`
}

// TierSpec описывает класс лицензии: цена, срок, лимиты.
type TierSpec struct {
	Price        float64  `yaml:"price"`
	DurationDays int      `yaml:"duration_days"`
	MaxTrades    int      `yaml:"max_trades"`
	Features     []string `yaml:"features"`
}

type LicenseRecord struct {
	ID        string
	UserID    string
	Key       string // сериализованный токен base64(payload).base64(sig)
	Tier      Tier
	Status    LicenseStatus
	IssuedAt  time.Time
	ExpiresAt time.Time
	PaymentRef string
	MaxTrades int
	Features  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
