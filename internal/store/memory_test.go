package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/krishimitra/krishimitra/internal/store"
	"github.com/krishimitra/krishimitra/pkg/models"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s := store.NewMemoryStore()
	t.Cleanup(func() { s.Close() })
	return s
}

// ─── Crop CRUD ───────────────────────────────────────────────

func TestCreateAndGetCrop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	crop := &models.Crop{Name: "Rice", Season: "kharif", WaterNeed: "high", DurationDays: 120}
	if err := s.CreateCrop(ctx, crop); err != nil {
		t.Fatalf("CreateCrop() error = %v", err)
	}
	if crop.ID == "" {
		t.Fatal("CreateCrop() did not assign an ID")
	}

	got, err := s.GetCrop(ctx, crop.ID)
	if err != nil {
		t.Fatalf("GetCrop() error = %v", err)
	}
	if got.Name != "Rice" {
		t.Errorf("GetCrop().Name = %q, want %q", got.Name, "Rice")
	}
	if got.Season != "kharif" {
		t.Errorf("GetCrop().Season = %q, want %q", got.Season, "kharif")
	}
}

func TestGetCrop_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetCrop(context.Background(), "nope")
	if err != store.ErrNotFound {
		t.Errorf("GetCrop() error = %v, want ErrNotFound", err)
	}
}

func TestListCrops(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Rice", "Wheat", "Cotton"} {
		if err := s.CreateCrop(ctx, &models.Crop{Name: name}); err != nil {
			t.Fatalf("CreateCrop(%q) error = %v", name, err)
		}
	}

	crops, err := s.ListCrops(ctx)
	if err != nil {
		t.Fatalf("ListCrops() error = %v", err)
	}
	if len(crops) != 3 {
		t.Errorf("len(ListCrops()) = %d, want 3", len(crops))
	}
}

func TestDeleteCrop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	crop := &models.Crop{Name: "Tomato"}
	s.CreateCrop(ctx, crop)

	if err := s.DeleteCrop(ctx, crop.ID); err != nil {
		t.Fatalf("DeleteCrop() error = %v", err)
	}
	if _, err := s.GetCrop(ctx, crop.ID); err != store.ErrNotFound {
		t.Errorf("GetCrop() after delete error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteCrop(ctx, crop.ID); err != store.ErrNotFound {
		t.Errorf("DeleteCrop() second call error = %v, want ErrNotFound", err)
	}
}

// ─── Pest reports ────────────────────────────────────────────

func TestPestReportLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	report := &models.PestReport{PestName: "Bollworm", Language: "en", Confidence: 92, Severity: models.SeverityHigh, Source: "gemini"}
	if err := s.CreatePestReport(ctx, report); err != nil {
		t.Fatalf("CreatePestReport() error = %v", err)
	}
	if report.ID == "" {
		t.Fatal("CreatePestReport() did not assign an ID")
	}
	if report.ReportedAt.IsZero() {
		t.Error("CreatePestReport() did not stamp ReportedAt")
	}

	got, err := s.GetPestReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetPestReport() error = %v", err)
	}
	if got.PestName != "Bollworm" {
		t.Errorf("PestName = %q, want %q", got.PestName, "Bollworm")
	}

	if err := s.DeletePestReport(ctx, report.ID); err != nil {
		t.Fatalf("DeletePestReport() error = %v", err)
	}
	if _, err := s.GetPestReport(ctx, report.ID); err != store.ErrNotFound {
		t.Errorf("GetPestReport() after delete error = %v, want ErrNotFound", err)
	}
}

func TestListPestReports_NewestFirstWithLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		r := &models.PestReport{
			PestName:   "Aphids",
			ReportedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.CreatePestReport(ctx, r); err != nil {
			t.Fatalf("CreatePestReport() error = %v", err)
		}
	}

	reports, err := s.ListPestReports(ctx, 3)
	if err != nil {
		t.Fatalf("ListPestReports() error = %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("len = %d, want 3", len(reports))
	}
	for i := 1; i < len(reports); i++ {
		if reports[i].ReportedAt.After(reports[i-1].ReportedAt) {
			t.Errorf("reports not newest-first at index %d", i)
		}
	}
}

// ─── Chat history & activity ─────────────────────────────────

func TestChatHistoryPerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, userID := range []string{"u1", "u1", "u2"} {
		rec := &models.ChatRecord{UserID: userID, Query: "q", Response: "a", Language: "en"}
		if err := s.AppendChat(ctx, rec); err != nil {
			t.Fatalf("AppendChat() error = %v", err)
		}
	}

	got, err := s.ListChatHistory(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("ListChatHistory() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len(u1 history) = %d, want 2", len(got))
	}

	got, _ = s.ListChatHistory(ctx, "u2", 10)
	if len(got) != 1 {
		t.Errorf("len(u2 history) = %d, want 1", len(got))
	}

	got, _ = s.ListChatHistory(ctx, "stranger", 10)
	if len(got) != 0 {
		t.Errorf("len(stranger history) = %d, want 0", len(got))
	}
}

func TestActivityFeed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ev := &models.ActivityEvent{UserID: "u1", Kind: "chat", Detail: "asked about irrigation"}
	if err := s.RecordActivity(ctx, ev); err != nil {
		t.Fatalf("RecordActivity() error = %v", err)
	}
	if ev.ID == "" {
		t.Error("RecordActivity() did not assign an ID")
	}

	events, err := s.ListActivity(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("ListActivity() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len = %d, want 1", len(events))
	}
	if events[0].Kind != "chat" {
		t.Errorf("Kind = %q, want %q", events[0].Kind, "chat")
	}
}
