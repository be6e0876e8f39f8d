package service

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"fx_dashboard/internal/models"
)

// Разделитель сегментов токена. В base64-алфавите точки нет,
// так что внутри сегментов она встретиться не может.
const tokenSeparator = "."

// Codec выпускает и проверяет подписанные лицензионные токены.
// Формат: base64(payload_json) + "." + base64(sig), RSA PKCS#1 v1.5 / SHA-256.
type Codec struct {
	keys  *Keys
	tiers *TierTable
}

func NewCodec(keys *Keys, tiers *TierTable) *Codec {
	return &Codec{keys: keys, tiers: tiers}
}

// Issue собирает payload, подписывает и отдаёт токен.
// ID лицензии всегда свежий — два выпуска для одного юзера/тарифа
// дают разные токены.
func (c *Codec) Issue(userID string, tier models.Tier, now time.Time) (string, models.LicensePayload, error) {
	spec, ok := c.tiers.Spec(tier)
	if !ok {
		return "", models.LicensePayload{}, models.ErrTierMismatch
	}

	payload := models.LicensePayload{
		ID:        uuid.NewString(),
		UserID:    userID,
		Tier:      tier,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Duration(spec.DurationDays) * 24 * time.Hour),
		Features:  spec.Features,
		MaxTrades: spec.MaxTrades,
	}

	data, err := sonic.Marshal(payload)
	if err != nil {
		return "", models.LicensePayload{}, err
	}

	digest := sha256.Sum256(data)
	sig, err := rsa.SignPKCS1v15(rand.Reader, c.keys.private, crypto.SHA256, digest[:])
	if err != nil {
		return "", models.LicensePayload{}, err
	}

	token := base64.StdEncoding.EncodeToString(data) +
		tokenSeparator +
		base64.StdEncoding.EncodeToString(sig)

	return token, payload, nil
}

// Verify: подпись + срок. Никогда не паникует на мусорном входе.
// На просроченном токене возвращает расшифрованный payload ВМЕСТЕ
// с ErrExpired — вызывающему нужно пометить запись как expired.
func (c *Codec) Verify(token string, now time.Time) (models.LicensePayload, error) {
	parts := strings.Split(token, tokenSeparator)
	if len(parts) != 2 {
		return models.LicensePayload{}, models.ErrMalformedToken
	}

	data, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return models.LicensePayload{}, models.ErrMalformedToken
	}
	sig, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return models.LicensePayload{}, models.ErrMalformedToken
	}

	digest := sha256.Sum256(data)
	if err := rsa.VerifyPKCS1v15(c.keys.public, crypto.SHA256, digest[:], sig); err != nil {
		return models.LicensePayload{}, models.ErrInvalidToken
	}

	var payload models.LicensePayload
	if err := sonic.Unmarshal(data, &payload); err != nil {
		return models.LicensePayload{}, models.ErrMalformedToken
	}

	if now.After(payload.ExpiresAt) {
		return payload, models.ErrExpired
	}

	return payload, nil
}
