package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fx_dashboard/internal/models"
	"fx_dashboard/internal/modules/license/service/memory"
)

func testService(t *testing.T) (*Service, *memory.Licenses, *time.Time) {
	t.Helper()

	store := memory.NewLicenses()
	svc := NewService(testCodec(t), store)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, store, &now
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := testService(t)

	rec, err := svc.Create(ctx, "alice", models.TierProfessional, "pay-001")
	require.NoError(t, err)
	assert.Equal(t, models.LicenseActive, rec.Status)
	assert.Equal(t, 50, rec.MaxTrades)
	assert.Equal(t, "pay-001", rec.PaymentRef)

	active, err := svc.GetActive(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, rec.ID, active.ID)

	checked, err := svc.CheckValid(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, checked.ID)
}

func TestServiceNoLicense(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := testService(t)

	active, err := svc.GetActive(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, active)

	_, err = svc.CheckValid(ctx, "nobody")
	assert.ErrorIs(t, err, models.ErrNoLicense)
}

func TestServiceLazyExpiry(t *testing.T) {
	ctx := context.Background()
	svc, store, now := testService(t)

	rec, err := svc.Create(ctx, "alice", models.TierBasic, "pay-002")
	require.NoError(t, err)

	*now = now.Add(31 * 24 * time.Hour)

	active, err := svc.GetActive(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, active)

	all, err := store.ByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.LicenseExpired, all[0].Status)
	assert.Equal(t, rec.ID, all[0].ID)

	_, err = svc.CheckValid(ctx, "alice")
	assert.ErrorIs(t, err, models.ErrNoLicense)
}

func TestServiceRevokeOnTamper(t *testing.T) {
	ctx := context.Background()
	svc, store, now := testService(t)

	// запись с подменённым токеном: база говорит active, подпись битая
	require.NoError(t, store.Insert(ctx, &models.LicenseRecord{
		ID:        "lic-forged",
		UserID:    "mallory",
		Key:       "Zm9yZ2Vk.c2ln",
		Tier:      models.TierPremium,
		Status:    models.LicenseActive,
		IssuedAt:  *now,
		ExpiresAt: now.Add(24 * time.Hour),
		MaxTrades: 10,
	}))

	_, err := svc.CheckValid(ctx, "mallory")
	assert.ErrorIs(t, err, models.ErrInvalidToken)

	all, err := store.ByUser(ctx, "mallory")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.LicenseRevoked, all[0].Status)
}

func TestServiceActivateFromToken(t *testing.T) {
	ctx := context.Background()
	svc, _, now := testService(t)

	rec, err := svc.Create(ctx, "alice", models.TierPremium, "pay-003")
	require.NoError(t, err)

	t.Run("key is redeemable by another user", func(t *testing.T) {
		bob, err := svc.ActivateFromToken(ctx, "bob", rec.Key)
		require.NoError(t, err)
		assert.Equal(t, "bob", bob.UserID)
		assert.Equal(t, models.TierPremium, bob.Tier)
		assert.NotEqual(t, rec.ID, bob.ID)

		active, err := svc.GetActive(ctx, "bob")
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, bob.ID, active.ID)
	})

	t.Run("expired key is not activatable", func(t *testing.T) {
		*now = now.Add(31 * 24 * time.Hour)
		_, err := svc.ActivateFromToken(ctx, "carol", rec.Key)
		assert.ErrorIs(t, err, models.ErrExpired)
	})

	t.Run("garbage key", func(t *testing.T) {
		_, err := svc.ActivateFromToken(ctx, "carol", "garbage")
		assert.ErrorIs(t, err, models.ErrMalformedToken)
	})
}

func TestServiceLatestLicenseWins(t *testing.T) {
	ctx := context.Background()
	svc, _, now := testService(t)

	_, err := svc.Create(ctx, "alice", models.TierBasic, "pay-004")
	require.NoError(t, err)

	*now = now.Add(time.Hour)
	second, err := svc.Create(ctx, "alice", models.TierProfessional, "pay-005")
	require.NoError(t, err)

	active, err := svc.GetActive(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, models.TierProfessional, active.Tier)
}
