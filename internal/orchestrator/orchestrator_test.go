package orchestrator_test

import (
	"context"
	"testing"
	"time"

	"github.com/krishimitra/krishimitra/internal/orchestrator"
	"github.com/krishimitra/krishimitra/internal/providers"
	"github.com/krishimitra/krishimitra/pkg/models"
)

// scriptedClient replays canned responses and records every request it saw.
type scriptedClient struct {
	name   string
	script []response
	reqs   []providers.GenerateRequest
}

type response struct {
	text string
	err  error
}

func (c *scriptedClient) Name() string { return c.name }

func (c *scriptedClient) Generate(ctx context.Context, req providers.GenerateRequest) (string, error) {
	c.reqs = append(c.reqs, req)
	i := len(c.reqs) - 1
	if i >= len(c.script) {
		i = len(c.script) - 1
	}
	return c.script[i].text, c.script[i].err
}

func desc(c providers.Client, priority int) providers.Descriptor {
	return providers.Descriptor{Client: c, Priority: priority, MaxRetries: 1, BaseBackoff: time.Microsecond}
}

func terminal(name string) error {
	return &providers.ProviderError{Provider: name, Status: 401, Message: "bad key"}
}

func visionReq() models.AnalysisRequest {
	return models.AnalysisRequest{
		Image:    &models.ImagePayload{Data: []byte{0xFF, 0xD8}, MIMEType: "image/jpeg"},
		Language: "en",
		Task:     models.TaskVision,
	}
}

func chatReq(q string) models.AnalysisRequest {
	return models.AnalysisRequest{Query: q, Language: "en", Task: models.TaskChat}
}

// ─── Provider ordering ───────────────────────────────────────

func TestResolve_FirstProviderWins(t *testing.T) {
	first := &scriptedClient{name: "gemini", script: []response{{text: `{"pestName":"Aphids","confidence":80}`}}}
	second := &scriptedClient{name: "openrouter", script: []response{{text: "should not be called"}}}

	o := orchestrator.New(
		[]providers.Descriptor{desc(second, 2), desc(first, 1)},
		nil, time.Second,
	)
	res := o.Resolve(context.Background(), visionReq())

	if res.Source != "gemini" {
		t.Errorf("Source = %q, want %q", res.Source, "gemini")
	}
	if len(second.reqs) != 0 {
		t.Errorf("lower-priority provider was called %d times, want 0", len(second.reqs))
	}
	if res.Analysis == nil || res.Analysis.PestName != "Aphids" {
		t.Errorf("Analysis = %+v, want Aphids", res.Analysis)
	}
}

func TestResolve_FallsThroughToNextProvider(t *testing.T) {
	first := &scriptedClient{name: "gemini", script: []response{{err: terminal("gemini")}}}
	second := &scriptedClient{name: "openrouter", script: []response{{text: `{"pestName":"Whitefly","confidence":70}`}}}

	o := orchestrator.New(
		[]providers.Descriptor{desc(first, 1), desc(second, 2)},
		nil, time.Second,
	)
	res := o.Resolve(context.Background(), visionReq())

	if res.Source != "openrouter" {
		t.Errorf("Source = %q, want %q", res.Source, "openrouter")
	}
	if len(first.reqs) != 1 {
		t.Errorf("terminal provider called %d times, want 1", len(first.reqs))
	}
}

func TestResolve_EmptyResponseAdvancesChain(t *testing.T) {
	first := &scriptedClient{name: "gemini", script: []response{{text: "   "}}}
	second := &scriptedClient{name: "openrouter", script: []response{{text: `{"pestName":"Aphids","confidence":75}`}}}

	o := orchestrator.New(
		[]providers.Descriptor{desc(first, 1), desc(second, 2)},
		nil, time.Second,
	)
	res := o.Resolve(context.Background(), visionReq())

	if res.Source != "openrouter" {
		t.Errorf("Source = %q, want %q", res.Source, "openrouter")
	}
}

// ─── Mock floor ──────────────────────────────────────────────

func TestResolve_VisionMockWhenAllProvidersFail(t *testing.T) {
	first := &scriptedClient{name: "gemini", script: []response{{err: terminal("gemini")}}}
	second := &scriptedClient{name: "openrouter", script: []response{{err: terminal("openrouter")}}}

	o := orchestrator.New(
		[]providers.Descriptor{desc(first, 1), desc(second, 2)},
		nil, time.Second,
	)
	res := o.Resolve(context.Background(), visionReq())

	if res.Source != models.MockSource {
		t.Fatalf("Source = %q, want %q", res.Source, models.MockSource)
	}
	if res.Analysis == nil {
		t.Fatal("Analysis is nil, want mock analysis")
	}
	if res.Analysis.PestName == "" {
		t.Error("mock PestName is empty")
	}
	if res.Analysis.Description == "" {
		t.Error("mock Description is empty")
	}
	if len(res.Analysis.Treatment) == 0 {
		t.Error("mock Treatment is empty")
	}
}

func TestResolve_ChatMockWhenAllProvidersFail(t *testing.T) {
	first := &scriptedClient{name: "gemini", script: []response{{err: terminal("gemini")}}}
	second := &scriptedClient{name: "deepseek", script: []response{{err: terminal("deepseek")}}}
	third := &scriptedClient{name: "openrouter", script: []response{{err: terminal("openrouter")}}}

	o := orchestrator.New(
		nil,
		[]providers.Descriptor{desc(first, 1), desc(second, 2), desc(third, 3)},
		time.Second,
	)
	res := o.Resolve(context.Background(), chatReq("When should I water my wheat crop?"))

	if res.Source != models.MockSource {
		t.Fatalf("Source = %q, want %q", res.Source, models.MockSource)
	}
	if res.Content == "" {
		t.Error("chat mock Content is empty, want canned advice")
	}
}

func TestResolve_MockConfidenceNotClamped(t *testing.T) {
	// Curated scenarios carry confidences of 88, 92 and 96; the last one
	// sits above the live-provider ceiling and must survive untouched.
	first := &scriptedClient{name: "gemini", script: []response{{err: terminal("gemini")}}}
	o := orchestrator.New([]providers.Descriptor{desc(first, 1)}, nil, time.Second)

	res := o.Resolve(context.Background(), visionReq())
	if res.Source != models.MockSource {
		t.Fatalf("Source = %q, want %q", res.Source, models.MockSource)
	}
	switch res.Analysis.Confidence {
	case 88, 92, 96:
	default:
		t.Errorf("mock Confidence = %d, want one of the curated values 88/92/96", res.Analysis.Confidence)
	}
}

// ─── Free-text normalization end to end ──────────────────────

func TestResolve_FreeTextKeywordNormalization(t *testing.T) {
	client := &scriptedClient{name: "gemini", script: []response{
		{text: "The damage pattern strongly suggests bollworm larvae feeding inside the bolls."},
	}}

	o := orchestrator.New([]providers.Descriptor{desc(client, 1)}, nil, time.Second)
	res := o.Resolve(context.Background(), visionReq())

	if res.Analysis == nil {
		t.Fatal("Analysis is nil")
	}
	if res.Analysis.PestName != "Bollworm" {
		t.Errorf("PestName = %q, want %q", res.Analysis.PestName, "Bollworm")
	}
	if res.Analysis.Confidence != 85 {
		t.Errorf("Confidence = %d, want 85", res.Analysis.Confidence)
	}
	if res.Source != "gemini" {
		t.Errorf("Source = %q, want %q", res.Source, "gemini")
	}
}

// ─── Truncation re-issue ─────────────────────────────────────

func TestResolve_TruncatedResponseReissuedWithDoubledBudget(t *testing.T) {
	client := &scriptedClient{name: "gemini", script: []response{
		{text: `{"pestName":"Aphids","confidence":80,"description":"sap-sucking`},
		{text: `{"pestName":"Aphids","confidence":80,"description":"sap-sucking insects"}`},
	}}

	o := orchestrator.New([]providers.Descriptor{desc(client, 1)}, nil, time.Second)
	res := o.Resolve(context.Background(), visionReq())

	if len(client.reqs) != 2 {
		t.Fatalf("provider called %d times, want 2 (original + re-issue)", len(client.reqs))
	}
	if got, want := client.reqs[1].MaxTokens, client.reqs[0].MaxTokens*2; got != want {
		t.Errorf("re-issue MaxTokens = %d, want doubled to %d", got, want)
	}
	if res.Analysis.Description != "sap-sucking insects" {
		t.Errorf("Description = %q, want the re-issued complete text", res.Analysis.Description)
	}
	if res.Source != "gemini" {
		t.Errorf("Source = %q, want %q", res.Source, "gemini")
	}
}

func TestResolve_ReissueFailureKeepsOriginalText(t *testing.T) {
	client := &scriptedClient{name: "gemini", script: []response{
		{text: `{"pestName":"Aphids","confidence":80,"description":"cut off`},
		{err: terminal("gemini")},
	}}

	o := orchestrator.New([]providers.Descriptor{desc(client, 1)}, nil, time.Second)
	res := o.Resolve(context.Background(), visionReq())

	// The truncated original still normalizes (keyword fallback here since
	// the JSON is unbalanced); the answer must not be lost.
	if res.Source != "gemini" {
		t.Errorf("Source = %q, want %q", res.Source, "gemini")
	}
	if res.Analysis == nil || res.Analysis.PestName == "" {
		t.Errorf("Analysis = %+v, want populated", res.Analysis)
	}
}

// ─── Chat passthrough ────────────────────────────────────────

func TestResolve_ChatReturnsProviderText(t *testing.T) {
	client := &scriptedClient{name: "deepseek", script: []response{
		{text: "Irrigate wheat at crown root initiation, about 21 days after sowing."},
	}}

	o := orchestrator.New(nil, []providers.Descriptor{desc(client, 1)}, time.Second)
	res := o.Resolve(context.Background(), chatReq("when to water wheat"))

	if res.Content != client.script[0].text {
		t.Errorf("Content = %q, want provider text", res.Content)
	}
	if res.Analysis != nil {
		t.Error("Analysis non-nil for chat task")
	}
}

// ─── Deadline ────────────────────────────────────────────────

func TestResolve_ExpiredContextServesMock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &scriptedClient{name: "gemini", script: []response{{text: "never"}}}
	o := orchestrator.New([]providers.Descriptor{desc(client, 1)}, nil, time.Second)

	res := o.Resolve(ctx, visionReq())

	if res.Source != models.MockSource {
		t.Errorf("Source = %q, want %q", res.Source, models.MockSource)
	}
	if res.Analysis == nil {
		t.Error("Analysis is nil, want mock analysis")
	}
}
