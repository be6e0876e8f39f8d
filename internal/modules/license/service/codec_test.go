package service

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fx_dashboard/internal/models"
)

func testCodec(t *testing.T) *Codec {
	t.Helper()
	keys, err := loadOrGenerate("", "")
	require.NoError(t, err)
	return NewCodec(keys, NewTierTable(""))
}

func TestCodecIssueVerify(t *testing.T) {
	codec := testCodec(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("round trip", func(t *testing.T) {
		token, issued, err := codec.Issue("user-1", models.TierPremium, now)
		require.NoError(t, err)
		require.Contains(t, token, tokenSeparator)

		payload, err := codec.Verify(token, now.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, issued.ID, payload.ID)
		assert.Equal(t, "user-1", payload.UserID)
		assert.Equal(t, models.TierPremium, payload.Tier)
		assert.Equal(t, 10, payload.MaxTrades)
		assert.Equal(t, now.Add(30*24*time.Hour), payload.ExpiresAt.UTC())
	})

	t.Run("ids are unique per issue", func(t *testing.T) {
		t1, p1, err := codec.Issue("user-1", models.TierBasic, now)
		require.NoError(t, err)
		t2, p2, err := codec.Issue("user-1", models.TierBasic, now)
		require.NoError(t, err)
		assert.NotEqual(t, p1.ID, p2.ID)
		assert.NotEqual(t, t1, t2)
	})

	t.Run("unknown tier", func(t *testing.T) {
		_, _, err := codec.Issue("user-1", models.Tier("enterprise"), now)
		assert.ErrorIs(t, err, models.ErrTierMismatch)
	})
}

func TestCodecVerifyRejects(t *testing.T) {
	codec := testCodec(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	token, _, err := codec.Issue("user-1", models.TierBasic, now)
	require.NoError(t, err)

	t.Run("tampered payload", func(t *testing.T) {
		parts := strings.Split(token, tokenSeparator)
		data, err := base64.StdEncoding.DecodeString(parts[0])
		require.NoError(t, err)

		forged := strings.Replace(string(data), `"max_trades":3`, `"max_trades":500`, 1)
		require.NotEqual(t, string(data), forged)

		tampered := base64.StdEncoding.EncodeToString([]byte(forged)) + tokenSeparator + parts[1]
		_, err = codec.Verify(tampered, now)
		assert.ErrorIs(t, err, models.ErrInvalidToken)
	})

	t.Run("expired token still yields payload", func(t *testing.T) {
		payload, err := codec.Verify(token, now.Add(31*24*time.Hour))
		assert.ErrorIs(t, err, models.ErrExpired)
		assert.NotEmpty(t, payload.ID)
		assert.Equal(t, "user-1", payload.UserID)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, token := range []string{
			"",
			"no-separator",
			"a.b.c",
			"%%%." + base64.StdEncoding.EncodeToString([]byte("sig")),
			base64.StdEncoding.EncodeToString([]byte("{}")) + ".%%%",
		} {
			_, err := codec.Verify(token, now)
			assert.ErrorIs(t, err, models.ErrMalformedToken, "token %q", token)
		}
	})

	t.Run("valid base64 garbage signature", func(t *testing.T) {
		parts := strings.Split(token, tokenSeparator)
		garbage := parts[0] + tokenSeparator + base64.StdEncoding.EncodeToString([]byte("not a signature"))
		_, err := codec.Verify(garbage, now)
		assert.ErrorIs(t, err, models.ErrInvalidToken)
	})
}
