// Package providers wraps the third-party AI endpoints behind one Client
// interface. Each concrete client knows its own request shaping, auth and
// error codes; callers see raw response text or a classified error.
package providers

import (
	"context"
	"sort"
	"time"

	"github.com/krishimitra/krishimitra/pkg/models"
)

// GenerateRequest is a single prompt to one provider.
type GenerateRequest struct {
	Prompt      string
	Image       *models.ImagePayload
	MaxTokens   int
	Temperature float32
}

// Client is one third-party AI endpoint.
type Client interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Descriptor binds a client to its position in a fallback chain and its
// retry policy. Lower priority is tried first.
type Descriptor struct {
	Client      Client
	Priority    int
	MaxRetries  int
	BaseBackoff time.Duration
}

// Order returns the descriptors sorted by ascending priority.
func Order(ds []Descriptor) []Descriptor {
	out := make([]Descriptor, len(ds))
	copy(out, ds)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}
