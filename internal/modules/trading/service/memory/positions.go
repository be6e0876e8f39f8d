package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fx_dashboard/internal/models"
)

// Positions — map-бэкенд для тестов и запуска без DSN.
type Positions struct {
	mu   sync.RWMutex
	data map[string]*models.Position // id -> position
}

func NewPositions() *Positions {
	return &Positions{data: make(map[string]*models.Position)}
}

func (s *Positions) Insert(_ context.Context, p *models.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[p.ID]; ok {
		return fmt.Errorf("memory.Positions.Insert: duplicate id %s", p.ID)
	}
	clone := *p
	s.data[p.ID] = &clone
	return nil
}

func (s *Positions) Update(_ context.Context, p *models.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[p.ID]; !ok {
		return fmt.Errorf("memory.Positions.Update: id %s not found", p.ID)
	}
	clone := *p
	s.data[p.ID] = &clone
	return nil
}

func (s *Positions) Get(_ context.Context, id string) (*models.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[id]
	if !ok {
		return nil, fmt.Errorf("memory.Positions.Get: id %s not found", id)
	}
	clone := *p
	return &clone, nil
}

func (s *Positions) OpenByUser(_ context.Context, userID string) ([]models.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Position
	for _, p := range s.data {
		if p.UserID == userID && p.Status == models.PositionOpen {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.Before(out[j].OpenedAt) })
	return out, nil
}

func (s *Positions) ByUser(_ context.Context, userID string) ([]models.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Position
	for _, p := range s.data {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	return out, nil
}

func (s *Positions) UsersWithOpen(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, p := range s.data {
		if p.Status != models.PositionOpen {
			continue
		}
		if _, ok := seen[p.UserID]; ok {
			continue
		}
		seen[p.UserID] = struct{}{}
		out = append(out, p.UserID)
	}
	return out, nil
}
