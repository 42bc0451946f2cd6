package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Lynn3t/my-takeoff-2026/internal/core/domain"
)

// In-memory implementations backing tests and local development. All of
// them are safe for concurrent use.

type InMemoryRecordRepository struct {
	store map[string]map[string]*domain.DailyRecord // userID -> dateKey -> record

	mu sync.RWMutex
}

func NewInMemoryRecordRepository() *InMemoryRecordRepository {
	return &InMemoryRecordRepository{
		store: make(map[string]map[string]*domain.DailyRecord),
	}
}

func (r *InMemoryRecordRepository) Upsert(ctx context.Context, record *domain.DailyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[record.UserID]; !ok {
		r.store[record.UserID] = make(map[string]*domain.DailyRecord)
	}
	clone := *record
	r.store[record.UserID][record.DateKey] = &clone
	return nil
}

func (r *InMemoryRecordRepository) Delete(ctx context.Context, userID, dateKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[userID][dateKey]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.store[userID], dateKey)
	return nil
}

func (r *InMemoryRecordRepository) Exists(ctx context.Context, userID, dateKey string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.store[userID][dateKey]
	return ok, nil
}

func (r *InMemoryRecordRepository) MapByRange(ctx context.Context, userID, startKey, endKey string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make(map[string]int)
	for dateKey, rec := range r.store[userID] {
		if dateKey >= startKey && dateKey <= endKey {
			records[dateKey] = rec.Count
		}
	}
	return records, nil
}

func (r *InMemoryRecordRepository) ListByRange(ctx context.Context, userID, startKey, endKey string) ([]*domain.DailyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*domain.DailyRecord
	for dateKey, rec := range r.store[userID] {
		if dateKey >= startKey && dateKey <= endKey {
			clone := *rec
			records = append(records, &clone)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].DateKey < records[j].DateKey
	})

	return records, nil
}

type InMemoryViewedMarkerRepository struct {
	store map[string]time.Time // userID|type|periodKey

	mu sync.RWMutex
}

func NewInMemoryViewedMarkerRepository() *InMemoryViewedMarkerRepository {
	return &InMemoryViewedMarkerRepository{
		store: make(map[string]time.Time),
	}
}

func markerKey(userID string, reportType domain.PeriodType, periodKey string) string {
	return userID + "|" + string(reportType) + "|" + periodKey
}

func (r *InMemoryViewedMarkerRepository) Mark(ctx context.Context, userID string, reportType domain.PeriodType, periodKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := markerKey(userID, reportType, periodKey)
	if _, ok := r.store[key]; !ok {
		r.store[key] = time.Now().UTC()
	}
	return nil
}

func (r *InMemoryViewedMarkerRepository) IsViewed(ctx context.Context, userID string, reportType domain.PeriodType, periodKey string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.store[markerKey(userID, reportType, periodKey)]
	return ok, nil
}

type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.store {
		if existing.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}
	clone := *user
	r.store[user.ID] = &clone
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *InMemoryUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.store {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.store))
	for _, user := range r.store {
		clone := *user
		users = append(users, &clone)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	return users, nil
}

func (r *InMemoryUserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.store[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryUserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.store, id)
	return nil
}
