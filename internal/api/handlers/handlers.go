// Package handlers implements the HTTP handlers for the KrishiMitra backend.
// Handlers depend on the Store interface and the AI orchestrator; every AI
// endpoint degrades to a generated answer rather than failing, so these
// handlers return 5xx only for storage faults.
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/krishimitra/krishimitra/internal/auth"
	"github.com/krishimitra/krishimitra/internal/orchestrator"
	"github.com/krishimitra/krishimitra/internal/pestdata"
	"github.com/krishimitra/krishimitra/internal/store"
	"github.com/krishimitra/krishimitra/pkg/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handlers holds all handler dependencies.
type Handlers struct {
	Store        store.Store
	Orchestrator *orchestrator.Orchestrator
	OTP          *auth.OTPStore
}

// New creates a new Handlers instance.
func New(s store.Store, o *orchestrator.Orchestrator, otp *auth.OTPStore) *Handlers {
	return &Handlers{Store: s, Orchestrator: o, OTP: otp}
}

// ── AI Handlers ──────────────────────────────────────────────

func (h *Handlers) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.ImageData) == "" {
		respondError(w, http.StatusBadRequest, "imageData is required")
		return
	}

	image, err := decodeImage(req.ImageData)
	if err != nil {
		respondError(w, http.StatusBadRequest, "imageData is not valid base64 image data")
		return
	}

	lang := pestdata.NormalizeLanguage(req.Language)
	result := h.Orchestrator.Resolve(r.Context(), models.AnalysisRequest{
		Image:    image,
		Language: lang,
		Task:     models.TaskVision,
	})

	// Persist the outcome; analysis quality does not depend on it, so a
	// storage fault only logs.
	if result.Analysis != nil {
		report := models.PestReport{
			ID:         uuid.New().String(),
			PestName:   result.Analysis.PestName,
			Language:   lang,
			Confidence: result.Analysis.Confidence,
			Severity:   result.Analysis.Severity,
			Source:     result.Source,
			ReportedAt: time.Now().UTC(),
		}
		if err := h.Store.CreatePestReport(r.Context(), &report); err != nil {
			log.Warn().Err(err).Msg("Failed to persist pest report")
		}
	}

	respondJSON(w, http.StatusOK, models.AnalyzeImageResponse{
		Success:     true,
		Result:      result.Analysis,
		RawResponse: result.Raw,
		Source:      result.Source,
	})
}

func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		respondError(w, http.StatusBadRequest, "query is required")
		return
	}

	lang := pestdata.NormalizeLanguage(req.Language)
	result := h.Orchestrator.Resolve(r.Context(), models.AnalysisRequest{
		Query:    req.Query,
		Language: lang,
		Task:     models.TaskChat,
	})

	if req.UserID != "" {
		rec := models.ChatRecord{
			ID:        uuid.New().String(),
			UserID:    req.UserID,
			Query:     req.Query,
			Response:  result.Content,
			Language:  lang,
			CreatedAt: time.Now().UTC(),
		}
		if err := h.Store.AppendChat(r.Context(), &rec); err != nil {
			log.Warn().Err(err).Msg("Failed to persist chat record")
		}
		ev := models.ActivityEvent{
			ID:        uuid.New().String(),
			UserID:    req.UserID,
			Kind:      "chat",
			Detail:    req.Query,
			CreatedAt: time.Now().UTC(),
		}
		if err := h.Store.RecordActivity(r.Context(), &ev); err != nil {
			log.Warn().Err(err).Msg("Failed to record activity")
		}
	}

	respondJSON(w, http.StatusOK, models.ChatResponse{
		Success:  true,
		Response: result.Content,
		Source:   result.Source,
	})
}

// decodeImage accepts either a data URL ("data:image/jpeg;base64,...") or a
// bare base64 string and returns the decoded payload.
func decodeImage(s string) (*models.ImagePayload, error) {
	mimeType := "image/jpeg"
	if strings.HasPrefix(s, "data:") {
		header, rest, ok := strings.Cut(s, ",")
		if !ok {
			return nil, base64.CorruptInputError(0)
		}
		if mt := strings.TrimPrefix(header, "data:"); mt != "" {
			mimeType = strings.SplitN(mt, ";", 2)[0]
		}
		s = rest
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	return &models.ImagePayload{Data: data, MIMEType: mimeType}, nil
}

// ── Crop Handlers ────────────────────────────────────────────

func (h *Handlers) ListCrops(w http.ResponseWriter, r *http.Request) {
	crops, err := h.Store.ListCrops(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if crops == nil {
		crops = []models.Crop{}
	}
	respondJSON(w, http.StatusOK, crops)
}

func (h *Handlers) GetCrop(w http.ResponseWriter, r *http.Request) {
	crop, err := h.Store.GetCrop(r.Context(), chi.URLParam(r, "cropId"))
	if err == store.ErrNotFound {
		respondError(w, http.StatusNotFound, "Crop not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, crop)
}

func (h *Handlers) CreateCrop(w http.ResponseWriter, r *http.Request) {
	var req models.Crop
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if err := h.Store.CreateCrop(r.Context(), &req); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	log.Info().Str("crop", req.Name).Str("id", req.ID).Msg("Crop created")
	respondJSON(w, http.StatusCreated, req)
}

func (h *Handlers) DeleteCrop(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteCrop(r.Context(), chi.URLParam(r, "cropId"))
	if err == store.ErrNotFound {
		respondError(w, http.StatusNotFound, "Crop not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Pest Report Handlers ─────────────────────────────────────

func (h *Handlers) ListPestReports(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50)
	reports, err := h.Store.ListPestReports(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if reports == nil {
		reports = []models.PestReport{}
	}
	respondJSON(w, http.StatusOK, reports)
}

func (h *Handlers) GetPestReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Store.GetPestReport(r.Context(), chi.URLParam(r, "reportId"))
	if err == store.ErrNotFound {
		respondError(w, http.StatusNotFound, "Pest report not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *Handlers) CreatePestReport(w http.ResponseWriter, r *http.Request) {
	var req models.PestReport
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.PestName) == "" {
		respondError(w, http.StatusBadRequest, "pestName is required")
		return
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.ReportedAt.IsZero() {
		req.ReportedAt = time.Now().UTC()
	}
	if err := h.Store.CreatePestReport(r.Context(), &req); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, req)
}

func (h *Handlers) DeletePestReport(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeletePestReport(r.Context(), chi.URLParam(r, "reportId"))
	if err == store.ErrNotFound {
		respondError(w, http.StatusNotFound, "Pest report not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── History & Activity Handlers ──────────────────────────────

func (h *Handlers) ChatHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	records, err := h.Store.ListChatHistory(r.Context(), userID, queryLimit(r, 50))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []models.ChatRecord{}
	}
	respondJSON(w, http.StatusOK, records)
}

func (h *Handlers) Activity(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	events, err := h.Store.ListActivity(r.Context(), userID, queryLimit(r, 50))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if events == nil {
		events = []models.ActivityEvent{}
	}
	respondJSON(w, http.StatusOK, events)
}

// ── OTP Handlers ─────────────────────────────────────────────

func (h *Handlers) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req models.OTPSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		respondError(w, http.StatusBadRequest, "phone is required")
		return
	}

	code, err := h.OTP.Issue(phone)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate code")
		return
	}

	// No SMS gateway is wired up; the code is surfaced through the server
	// log for development deployments.
	log.Info().Str("phone", maskPhone(phone)).Str("code", code).Msg("OTP issued")

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "OTP sent"})
}

func (h *Handlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.OTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Phone == "" || req.Code == "" {
		respondError(w, http.StatusBadRequest, "phone and code are required")
		return
	}

	switch err := h.OTP.Verify(strings.TrimSpace(req.Phone), strings.TrimSpace(req.Code)); err {
	case nil:
		respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"userId":  uuid.New().String(),
		})
	case auth.ErrOTPNotFound, auth.ErrOTPExpired:
		respondError(w, http.StatusUnauthorized, "Code expired or not found, request a new one")
	case auth.ErrTooManyGuesses:
		respondError(w, http.StatusUnauthorized, "Too many attempts, request a new code")
	case auth.ErrOTPMismatch:
		respondError(w, http.StatusUnauthorized, "Incorrect code")
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

// ── Helpers ──────────────────────────────────────────────────

func queryLimit(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
