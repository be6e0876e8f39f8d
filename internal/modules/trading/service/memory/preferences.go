package memory

import (
	"context"
	"sync"

	"fx_dashboard/internal/models"
)

// Preferences — map-бэкенд риск-настроек.
type Preferences struct {
	mu   sync.RWMutex
	data map[string]*models.RiskPreferences
}

func NewPreferences() *Preferences {
	return &Preferences{data: make(map[string]*models.RiskPreferences)}
}

func (s *Preferences) Upsert(_ context.Context, prefs *models.RiskPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *prefs
	clone.Pairs = append([]string(nil), prefs.Pairs...)
	s.data[prefs.UserID] = &clone
	return nil
}

func (s *Preferences) Get(_ context.Context, userID string) (*models.RiskPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefs, ok := s.data[userID]
	if !ok {
		return nil, nil
	}
	clone := *prefs
	clone.Pairs = append([]string(nil), prefs.Pairs...)
	return &clone, nil
}
