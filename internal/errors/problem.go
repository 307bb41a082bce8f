package errors

import (
	"encoding/json"
	"net/http"
)

// ContentTypeProblem is the media type of RFC 7807 bodies.
const ContentTypeProblem = "application/problem+json"

// Problem types served by the API. Generic ones first, dashboard ones after.
const (
	TypeValidation  = "/errors/validation"
	TypeNotFound    = "/errors/not-found"
	TypeMethod      = "/errors/method-not-allowed"
	TypeRateLimit   = "/errors/rate-limit"
	TypeTimeout     = "/errors/timeout"
	TypeInternal    = "/errors/internal"
	TypeServiceDown = "/errors/service-unavailable"

	TypeDataNotFound      = "/errors/data/not-found"
	TypeColumnNotFound    = "/errors/data/unknown-column"
	TypeColumnNotNumeric  = "/errors/data/not-numeric"
	TypeViewNotFound      = "/errors/view/not-found"
	TypeViewSkipped       = "/errors/view/skipped"
	TypeUnsupportedFormat = "/errors/export/unsupported-format"
)

// ProblemDetails is an RFC 7807 response body.
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Extensions are flattened into the top-level object; they never
	// replace a standard member.
	Extensions map[string]any `json:"-"`
}

// NewProblemDetails creates a problem. The title defaults to the status text.
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	if title == "" {
		title = http.StatusText(status)
	}
	return &ProblemDetails{
		Type:     problemType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	}
}

// WithExtension sets an extension member.
func (pd *ProblemDetails) WithExtension(key string, value any) *ProblemDetails {
	if pd.Extensions == nil {
		pd.Extensions = make(map[string]any)
	}
	pd.Extensions[key] = value
	return pd
}

// MarshalJSON flattens the extensions next to the standard members.
func (pd *ProblemDetails) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(pd.Extensions)+5)
	for k, v := range pd.Extensions {
		out[k] = v
	}
	out["type"] = pd.Type
	out["title"] = pd.Title
	out["status"] = pd.Status
	if pd.Detail != "" {
		out["detail"] = pd.Detail
	}
	if pd.Instance != "" {
		out["instance"] = pd.Instance
	}
	return json.Marshal(out)
}

// Write sends the problem with its status and media type.
func (pd *ProblemDetails) Write(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", ContentTypeProblem)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(pd.Status)
	return json.NewEncoder(w).Encode(pd)
}
