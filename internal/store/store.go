// Package store provides the storage interface and implementations for the
// KrishiMitra backend. The in-memory store is the zero-configuration
// default; PostgreSQL-backed persistence is selected when DATABASE_URL is
// set.
package store

import (
	"context"
	"errors"

	"github.com/krishimitra/krishimitra/pkg/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Store is the primary storage interface. Handler code depends only on this
// interface, making it easy to swap between in-memory (tests, dev) and
// PostgreSQL (production) implementations.
type Store interface {
	CropStore
	PestReportStore
	ChatHistoryStore
	ActivityStore

	// Ping checks if the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the store.
	Close() error
}

// ── Crop store ───────────────────────────────────────────────

type CropStore interface {
	ListCrops(ctx context.Context) ([]models.Crop, error)
	GetCrop(ctx context.Context, id string) (*models.Crop, error)
	CreateCrop(ctx context.Context, crop *models.Crop) error
	DeleteCrop(ctx context.Context, id string) error
}

// ── Pest report store ────────────────────────────────────────

type PestReportStore interface {
	ListPestReports(ctx context.Context, limit int) ([]models.PestReport, error)
	GetPestReport(ctx context.Context, id string) (*models.PestReport, error)
	CreatePestReport(ctx context.Context, report *models.PestReport) error
	DeletePestReport(ctx context.Context, id string) error
}

// ── Chat history store ───────────────────────────────────────

type ChatHistoryStore interface {
	AppendChat(ctx context.Context, rec *models.ChatRecord) error
	ListChatHistory(ctx context.Context, userID string, limit int) ([]models.ChatRecord, error)
}

// ── Activity store ───────────────────────────────────────────

type ActivityStore interface {
	RecordActivity(ctx context.Context, ev *models.ActivityEvent) error
	ListActivity(ctx context.Context, userID string, limit int) ([]models.ActivityEvent, error)
}
