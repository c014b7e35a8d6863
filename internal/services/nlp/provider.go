// Package nlp is the extraction boundary: it turns a free-text chat message
// into structured task fields. Everything past this boundary is opaque to
// the engine; extraction failures surface as a single error kind.
package nlp

import (
	"context"
	"errors"

	"github.com/listoapp/listo/internal/models"
)

// ErrExtractionFailed wraps every failure of the extraction boundary:
// network errors, non-2xx responses, malformed bodies. Callers never see
// provider internals.
var ErrExtractionFailed = errors.New("task extraction failed")

// Extractor is the interface for NLP extraction providers.
type Extractor interface {
	// ExtractTaskFields extracts exactly one task candidate from an
	// utterance. Multi-valued raw fields are reduced to their first element.
	ExtractTaskFields(ctx context.Context, utterance string) (models.TaskFields, error)
}

// ExtractorFactory creates an extractor from provider-specific config.
type ExtractorFactory func(config map[string]string) (Extractor, error)

// Registry stores available extraction providers by name.
type Registry struct {
	providers map[string]ExtractorFactory
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]ExtractorFactory)}
}

// Register registers a provider factory.
func (r *Registry) Register(name string, factory ExtractorFactory) {
	r.providers[name] = factory
}

// Get builds a provider by name.
func (r *Registry) Get(name string, config map[string]string) (Extractor, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}
	return factory(config)
}

// ErrProviderNotFound is returned when a provider is not registered.
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return "extraction provider not found: " + e.Name
}
