package orchestrator

import (
	"errors"
	"strings"

	"github.com/krishimitra/krishimitra/internal/normalize"
)

// errEmptyResponse marks a provider that answered with nothing usable. The
// orchestrator advances to the next provider on it.
var errEmptyResponse = errors.New("empty provider response")

type validation struct {
	ok        bool
	truncated bool
}

// validateResponse inspects raw provider text before normalization. An
// empty or whitespace-only body is unusable; a trailing ellipsis or
// unbalanced braces suggest the model was cut off mid-answer.
func validateResponse(raw string) validation {
	if strings.TrimSpace(raw) == "" {
		return validation{}
	}
	return validation{ok: true, truncated: normalize.LooksTruncated(raw)}
}
