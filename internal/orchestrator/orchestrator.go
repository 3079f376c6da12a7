// Package orchestrator implements the provider fallback policy at the heart
// of the assistant: try providers in priority order, retry transient noise,
// validate and normalize whatever comes back, and degrade to curated mock
// data when every provider is exhausted. Resolve never fails; the caller
// always gets a usable result.
package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/krishimitra/krishimitra/internal/normalize"
	"github.com/krishimitra/krishimitra/internal/pestdata"
	"github.com/krishimitra/krishimitra/internal/providers"
	"github.com/krishimitra/krishimitra/pkg/models"
)

// DefaultDeadline bounds one whole orchestration pass. When it expires the
// remaining providers are skipped and the mock path answers.
const DefaultDeadline = 30 * time.Second

const (
	visionMaxTokens    = 2048
	chatMaxTokens      = 1024
	defaultTemperature = 0.3
)

// Orchestrator holds the per-task provider chains. It is stateless across
// requests apart from this static configuration.
type Orchestrator struct {
	vision   []providers.Descriptor
	chat     []providers.Descriptor
	deadline time.Duration
}

// New builds an orchestrator from unordered provider lists. Deadline <= 0
// selects DefaultDeadline.
func New(vision, chat []providers.Descriptor, deadline time.Duration) *Orchestrator {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	return &Orchestrator{
		vision:   providers.Order(vision),
		chat:     providers.Order(chat),
		deadline: deadline,
	}
}

// Resolve runs the fallback chain for the request's task kind. First
// successful provider wins; total exhaustion is absorbed by the mock
// generator. Resolve never returns an error.
func (o *Orchestrator) Resolve(ctx context.Context, req models.AnalysisRequest) models.Result {
	ctx, cancel := context.WithTimeout(ctx, o.deadline)
	defer cancel()

	chain := o.chat
	if req.Task == models.TaskVision {
		chain = o.vision
	}

	var lastRaw string
	for _, d := range chain {
		if ctx.Err() != nil {
			log.Warn().Str("task", string(req.Task)).Msg("orchestration deadline hit, skipping remaining providers")
			break
		}

		start := time.Now()
		raw, err := o.attempt(ctx, d, req)
		latency := time.Since(start)
		if raw != "" {
			lastRaw = raw
		}
		if err != nil {
			log.Warn().
				Str("provider", d.Client.Name()).
				Str("task", string(req.Task)).
				Dur("latency", latency).
				Err(err).
				Msg("provider failed, trying next")
			continue
		}

		log.Debug().
			Str("provider", d.Client.Name()).
			Str("task", string(req.Task)).
			Dur("latency", latency).
			Int("bytes", len(raw)).
			Msg("provider answered")

		if req.Task == models.TaskChat {
			return models.Result{Content: normalize.Chat(raw), Raw: raw, Source: d.Client.Name()}
		}
		analysis := normalize.Vision(raw, req.Language)
		return models.Result{Analysis: &analysis, Raw: raw, Source: d.Client.Name()}
	}

	return o.mock(req, lastRaw)
}

// attempt runs one provider through its retry budget, then validates the
// text. A response that looks truncated is re-issued once with a doubled
// token budget; the re-issue is a quality upgrade, not error recovery, so
// it sits outside the retry budget.
func (o *Orchestrator) attempt(ctx context.Context, d providers.Descriptor, req models.AnalysisRequest) (string, error) {
	greq := buildRequest(req)
	retry := providers.Retryer{MaxRetries: d.MaxRetries, BaseBackoff: d.BaseBackoff}

	raw, err := retry.Call(ctx, d.Client, greq)
	if err != nil {
		return "", err
	}

	v := validateResponse(raw)
	if v.ok && v.truncated {
		bigger := greq
		bigger.MaxTokens = greq.MaxTokens * 2
		if re, rerr := d.Client.Generate(ctx, bigger); rerr == nil && strings.TrimSpace(re) != "" {
			log.Debug().Str("provider", d.Client.Name()).Msg("truncation suspected, accepted re-issued response")
			raw = re
		}
	}
	if !v.ok {
		return raw, errEmptyResponse
	}
	return raw, nil
}

func buildRequest(req models.AnalysisRequest) providers.GenerateRequest {
	if req.Task == models.TaskVision {
		return providers.GenerateRequest{
			Prompt:      pestdata.VisionPrompt(req.Language),
			Image:       req.Image,
			MaxTokens:   visionMaxTokens,
			Temperature: defaultTemperature,
		}
	}
	return providers.GenerateRequest{
		Prompt:      pestdata.ChatPrompt(req.Language, req.Query),
		MaxTokens:   chatMaxTokens,
		Temperature: defaultTemperature,
	}
}

// mock is the availability floor. For vision tasks the last raw response,
// if any, serves as a topic hint so the canned answer can at least stay on
// subject.
func (o *Orchestrator) mock(req models.AnalysisRequest, lastRaw string) models.Result {
	log.Warn().
		Str("task", string(req.Task)).
		Str("language", req.Language).
		Msg("all providers exhausted, serving mock response")

	if req.Task == models.TaskChat {
		return models.Result{
			Content: pestdata.MockChat(req.Language, req.Query),
			Source:  models.MockSource,
		}
	}
	analysis := pestdata.MockAnalysis(req.Language, lastRaw)
	return models.Result{Analysis: &analysis, Source: models.MockSource}
}
