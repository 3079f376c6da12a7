package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/krishimitra/krishimitra/pkg/models"
)

// PostgresStore implements Store on PostgreSQL via pgx. The schema is
// created on startup if it doesn't exist.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects, pings, and migrates.
func NewPostgresStore(ctx context.Context, connURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connURL)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}

	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS km_crops (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			season        TEXT NOT NULL DEFAULT '',
			soil_type     TEXT NOT NULL DEFAULT '',
			water_need    TEXT NOT NULL DEFAULT '',
			duration_days INT  NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS km_pest_reports (
			id          TEXT PRIMARY KEY,
			pest_name   TEXT NOT NULL,
			crop_name   TEXT NOT NULL DEFAULT '',
			language    TEXT NOT NULL DEFAULT 'en',
			confidence  INT  NOT NULL DEFAULT 0,
			severity    TEXT NOT NULL DEFAULT 'medium',
			source      TEXT NOT NULL DEFAULT '',
			reported_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS km_chat_history (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			query      TEXT NOT NULL,
			response   TEXT NOT NULL,
			language   TEXT NOT NULL DEFAULT 'en',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS km_activity (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			kind       TEXT NOT NULL,
			detail     TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_km_chat_user ON km_chat_history (user_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_km_activity_user ON km_activity (user_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_km_reports_time ON km_pest_reports (reported_at DESC);
	`
	_, err := s.pool.Exec(ctx, ddl)
	return err
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// ── Crops ────────────────────────────────────────────────────

func (s *PostgresStore) ListCrops(ctx context.Context) ([]models.Crop, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, season, soil_type, water_need, duration_days FROM km_crops ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Crop
	for rows.Next() {
		var c models.Crop
		if err := rows.Scan(&c.ID, &c.Name, &c.Season, &c.SoilType, &c.WaterNeed, &c.DurationDays); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetCrop(ctx context.Context, id string) (*models.Crop, error) {
	var c models.Crop
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, season, soil_type, water_need, duration_days FROM km_crops WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Season, &c.SoilType, &c.WaterNeed, &c.DurationDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) CreateCrop(ctx context.Context, crop *models.Crop) error {
	if crop.ID == "" {
		crop.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO km_crops (id, name, season, soil_type, water_need, duration_days)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			season = EXCLUDED.season,
			soil_type = EXCLUDED.soil_type,
			water_need = EXCLUDED.water_need,
			duration_days = EXCLUDED.duration_days`,
		crop.ID, crop.Name, crop.Season, crop.SoilType, crop.WaterNeed, crop.DurationDays)
	return err
}

func (s *PostgresStore) DeleteCrop(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM km_crops WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ── Pest reports ─────────────────────────────────────────────

func (s *PostgresStore) ListPestReports(ctx context.Context, limit int) ([]models.PestReport, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, pest_name, crop_name, language, confidence, severity, source, reported_at
		 FROM km_pest_reports ORDER BY reported_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PestReport
	for rows.Next() {
		var r models.PestReport
		if err := rows.Scan(&r.ID, &r.PestName, &r.CropName, &r.Language, &r.Confidence, &r.Severity, &r.Source, &r.ReportedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetPestReport(ctx context.Context, id string) (*models.PestReport, error) {
	var r models.PestReport
	err := s.pool.QueryRow(ctx,
		`SELECT id, pest_name, crop_name, language, confidence, severity, source, reported_at
		 FROM km_pest_reports WHERE id = $1`, id).
		Scan(&r.ID, &r.PestName, &r.CropName, &r.Language, &r.Confidence, &r.Severity, &r.Source, &r.ReportedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *PostgresStore) CreatePestReport(ctx context.Context, report *models.PestReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.ReportedAt.IsZero() {
		report.ReportedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO km_pest_reports (id, pest_name, crop_name, language, confidence, severity, source, reported_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		report.ID, report.PestName, report.CropName, report.Language, report.Confidence, report.Severity, report.Source, report.ReportedAt)
	return err
}

func (s *PostgresStore) DeletePestReport(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM km_pest_reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ── Chat history ─────────────────────────────────────────────

func (s *PostgresStore) AppendChat(ctx context.Context, rec *models.ChatRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO km_chat_history (id, user_id, query, response, language, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.UserID, rec.Query, rec.Response, rec.Language, rec.CreatedAt)
	return err
}

func (s *PostgresStore) ListChatHistory(ctx context.Context, userID string, limit int) ([]models.ChatRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, query, response, language, created_at
		 FROM km_chat_history WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ChatRecord
	for rows.Next() {
		var r models.ChatRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Query, &r.Response, &r.Language, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ── Activity ─────────────────────────────────────────────────

func (s *PostgresStore) RecordActivity(ctx context.Context, ev *models.ActivityEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO km_activity (id, user_id, kind, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		ev.ID, ev.UserID, ev.Kind, ev.Detail, ev.CreatedAt)
	return err
}

func (s *PostgresStore) ListActivity(ctx context.Context, userID string, limit int) ([]models.ActivityEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, kind, detail, created_at
		 FROM km_activity WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ActivityEvent
	for rows.Next() {
		var e models.ActivityEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
