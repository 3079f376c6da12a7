package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/krishimitra/krishimitra/pkg/models"
)

// MemoryStore is a mutex-guarded in-memory Store. It is the default backend
// and the one used in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	crops    map[string]models.Crop
	reports  map[string]models.PestReport
	chats    map[string][]models.ChatRecord    // userID → records, oldest first
	activity map[string][]models.ActivityEvent // userID → events, oldest first
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		crops:    make(map[string]models.Crop),
		reports:  make(map[string]models.PestReport),
		chats:    make(map[string][]models.ChatRecord),
		activity: make(map[string][]models.ActivityEvent),
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }
func (s *MemoryStore) Close() error                   { return nil }

// ── Crops ────────────────────────────────────────────────────

func (s *MemoryStore) ListCrops(ctx context.Context) ([]models.Crop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Crop, 0, len(s.crops))
	for _, c := range s.crops {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) GetCrop(ctx context.Context, id string) (*models.Crop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.crops[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) CreateCrop(ctx context.Context, crop *models.Crop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if crop.ID == "" {
		crop.ID = uuid.NewString()
	}
	s.crops[crop.ID] = *crop
	return nil
}

func (s *MemoryStore) DeleteCrop(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.crops[id]; !ok {
		return ErrNotFound
	}
	delete(s.crops, id)
	return nil
}

// ── Pest reports ─────────────────────────────────────────────

func (s *MemoryStore) ListPestReports(ctx context.Context, limit int) ([]models.PestReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PestReport, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	// Newest first.
	sort.Slice(out, func(i, j int) bool { return out[i].ReportedAt.After(out[j].ReportedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) GetPestReport(ctx context.Context, id string) (*models.PestReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) CreatePestReport(ctx context.Context, report *models.PestReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.ReportedAt.IsZero() {
		report.ReportedAt = time.Now().UTC()
	}
	s.reports[report.ID] = *report
	return nil
}

func (s *MemoryStore) DeletePestReport(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return ErrNotFound
	}
	delete(s.reports, id)
	return nil
}

// ── Chat history ─────────────────────────────────────────────

func (s *MemoryStore) AppendChat(ctx context.Context, rec *models.ChatRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.chats[rec.UserID] = append(s.chats[rec.UserID], *rec)
	return nil
}

func (s *MemoryStore) ListChatHistory(ctx context.Context, userID string, limit int) ([]models.ChatRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.chats[userID]
	out := make([]models.ChatRecord, len(recs))
	copy(out, recs)
	// Newest first.
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ── Activity ─────────────────────────────────────────────────

func (s *MemoryStore) RecordActivity(ctx context.Context, ev *models.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	s.activity[ev.UserID] = append(s.activity[ev.UserID], *ev)
	return nil
}

func (s *MemoryStore) ListActivity(ctx context.Context, userID string, limit int) ([]models.ActivityEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	evs := s.activity[userID]
	out := make([]models.ActivityEvent, len(evs))
	copy(out, evs)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
