package memory

import (
	"context"
	"fmt"
	"sync"

	"fx_dashboard/internal/models"
)

// Licenses — map-бэкенд для тестов и запуска без DSN.
// Интерфейс тот же, что у pg.Licenses.
type Licenses struct {
	mu   sync.RWMutex
	data map[string]*models.LicenseRecord // id -> record
}

func NewLicenses() *Licenses {
	return &Licenses{data: make(map[string]*models.LicenseRecord)}
}

func (l *Licenses) Insert(_ context.Context, rec *models.LicenseRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.data[rec.ID]; ok {
		return fmt.Errorf("memory.Licenses.Insert: duplicate id %s", rec.ID)
	}
	clone := *rec
	l.data[rec.ID] = &clone
	return nil
}

func (l *Licenses) UpdateStatus(_ context.Context, id string, status models.LicenseStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.data[id]
	if !ok {
		return fmt.Errorf("memory.Licenses.UpdateStatus: id %s not found", id)
	}
	rec.Status = status
	return nil
}

func (l *Licenses) ActiveByUser(_ context.Context, userID string) ([]models.LicenseRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []models.LicenseRecord
	for _, rec := range l.data {
		if rec.UserID == userID && rec.Status == models.LicenseActive {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (l *Licenses) ByUser(_ context.Context, userID string) ([]models.LicenseRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []models.LicenseRecord
	for _, rec := range l.data {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	return out, nil
}
