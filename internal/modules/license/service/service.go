package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"fx_dashboard/internal/models"
	"fx_dashboard/pkg/lock"
	"fx_dashboard/pkg/logger"
)

// Store — персистентность лицензий. Реализации: pg и memory.
type Store interface {
	Insert(ctx context.Context, rec *models.LicenseRecord) error
	UpdateStatus(ctx context.Context, id string, status models.LicenseStatus) error
	ActiveByUser(ctx context.Context, userID string) ([]models.LicenseRecord, error)
	ByUser(ctx context.Context, userID string) ([]models.LicenseRecord, error)
}

// Service — выпуск и проверка лицензий поверх Codec + Store.
// Операции одного юзера сериализуются keyed-локом: ленивую экспирацию
// и revoke нельзя гонять параллельно — потеряем апдейт.
type Service struct {
	codec *Codec
	store Store
	locks *lock.Keyed

	now func() time.Time
}

func NewService(codec *Codec, store Store) *Service {
	return &Service{
		codec: codec,
		store: store,
		locks: lock.NewKeyed(),
		now:   time.Now,
	}
}

// Create выпускает лицензию после оплаты и сразу активирует её.
func (s *Service) Create(ctx context.Context, userID string, tier models.Tier, paymentRef string) (rec *models.LicenseRecord, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("license.Create: %w", err)
		}
	}()

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	now := s.now()
	token, payload, err := s.codec.Issue(userID, tier, now)
	if err != nil {
		return nil, err
	}

	rec = &models.LicenseRecord{
		ID:         payload.ID,
		UserID:     userID,
		Key:        token,
		Tier:       tier,
		Status:     models.LicenseActive,
		IssuedAt:   payload.IssuedAt,
		ExpiresAt:  payload.ExpiresAt,
		PaymentRef: paymentRef,
		MaxTrades:  payload.MaxTrades,
		Features:   payload.Features,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return nil, err
	}

	logger.Info("license issued: user=%s tier=%s id=%s", userID, tier, rec.ID)
	return rec, nil
}

// ActivateFromToken активирует существующий ключ для userID.
// Намеренно НЕ сверяем user_id из payload с активирующим юзером —
// ключ можно передать (redeemable-key семантика, см. тест).
func (s *Service) ActivateFromToken(ctx context.Context, userID, token string) (rec *models.LicenseRecord, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("license.ActivateFromToken: %w", err)
		}
	}()

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	now := s.now()
	payload, err := s.codec.Verify(token, now)
	if err != nil {
		return nil, err
	}
	if _, ok := s.codec.tiers.Spec(payload.Tier); !ok {
		return nil, models.ErrTierMismatch
	}

	rec = &models.LicenseRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Key:       token,
		Tier:      payload.Tier,
		Status:    models.LicenseActive,
		IssuedAt:  payload.IssuedAt,
		ExpiresAt: payload.ExpiresAt,
		MaxTrades: payload.MaxTrades,
		Features:  payload.Features,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return nil, err
	}

	logger.Info("license key activated: user=%s tier=%s", userID, payload.Tier)
	return rec, nil
}

// GetActive — актуальная активная лицензия юзера, либо nil.
// Просроченную помечает expired прямо на чтении (lazy expiry).
func (s *Service) GetActive(ctx context.Context, userID string) (*models.LicenseRecord, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	return s.getActiveLocked(ctx, userID)
}

func (s *Service) getActiveLocked(ctx context.Context, userID string) (rec *models.LicenseRecord, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("license.GetActive: %w", err)
		}
	}()

	records, err := s.store.ActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	// активных записей может оказаться несколько — авторитетна
	// последняя выпущенная
	sort.Slice(records, func(i, j int) bool {
		return records[i].IssuedAt.After(records[j].IssuedAt)
	})
	current := records[0]

	if s.now().After(current.ExpiresAt) {
		if err := s.store.UpdateStatus(ctx, current.ID, models.LicenseExpired); err != nil {
			return nil, err
		}
		logger.Info("license lazily expired: user=%s id=%s", userID, current.ID)
		return nil, nil
	}

	return &current, nil
}

// CheckValid — гейт для торговых операций: запись в базе + живая подпись.
// Состояние в базе можно подредактировать руками, подпись — нет,
// поэтому перепроверяем токен криптографически на каждый чек.
func (s *Service) CheckValid(ctx context.Context, userID string) (*models.LicenseRecord, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	return s.checkValidLocked(ctx, userID)
}

func (s *Service) checkValidLocked(ctx context.Context, userID string) (rec *models.LicenseRecord, err error) {
	defer func() {
		if err != nil && !errors.Is(err, models.ErrNoLicense) &&
			!errors.Is(err, models.ErrExpired) && !errors.Is(err, models.ErrInvalidToken) {
			err = fmt.Errorf("license.CheckValid: %w", err)
		}
	}()

	current, err := s.getActiveLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, models.ErrNoLicense
	}

	if _, err := s.codec.Verify(current.Key, s.now()); err != nil {
		switch {
		case errors.Is(err, models.ErrExpired):
			if uerr := s.store.UpdateStatus(ctx, current.ID, models.LicenseExpired); uerr != nil {
				return nil, uerr
			}
			return nil, models.ErrExpired
		default:
			// подпись битая или токен подменён — отзываем запись
			if uerr := s.store.UpdateStatus(ctx, current.ID, models.LicenseRevoked); uerr != nil {
				return nil, uerr
			}
			logger.Error("license revoked on signature failure: user=%s id=%s", userID, current.ID)
			return nil, models.ErrInvalidToken
		}
	}

	return current, nil
}
