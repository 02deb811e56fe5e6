package storage

import (
	"context"
	"sync"
	"time"

	"github.com/xaenox/flatprice-bot/internal/models"
)

type MemoryStorage struct {
	mu        sync.RWMutex
	sessions  map[int64]*models.Session
	estimates map[int64][]*models.Estimate
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions:  make(map[int64]*models.Session),
		estimates: make(map[int64][]*models.Estimate),
	}
}

func (s *MemoryStorage) GetSession(ctx context.Context, chatID int64) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if session, exists := s.sessions[chatID]; exists {
		return session.Clone(), nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) SaveSession(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ChatID] = session.Clone()
	return nil
}

func (s *MemoryStorage) DeleteSession(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, chatID)
	return nil
}

func (s *MemoryStorage) SaveEstimate(ctx context.Context, estimate *models.Estimate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if estimate.CreatedAt.IsZero() {
		estimate.CreatedAt = time.Now()
	}
	e := *estimate
	s.estimates[e.UserID] = append(s.estimates[e.UserID], &e)
	return nil
}

func (s *MemoryStorage) GetUserEstimates(ctx context.Context, userID int64, limit, offset int) ([]*models.Estimate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.estimates[userID]
	list := make([]*models.Estimate, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		list = append(list, stored[i])
	}

	if offset >= len(list) {
		return []*models.Estimate{}, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}

	out := make([]*models.Estimate, len(list))
	for i, e := range list {
		c := *e
		out[i] = &c
	}
	return out, nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
