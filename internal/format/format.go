package format

import (
	"context"
	"fmt"
	"strings"

	"astrogen/internal/progress"
	"astrogen/internal/services"
	"astrogen/internal/world"
)

// Format names an output format.
type Format string

const (
	Module    Format = "module"
	System    Format = "system"
	RefManual Format = "refmanual"
)

// All lists the supported formats in display order.
func All() []Format {
	return []Format{Module, System, RefManual}
}

// Parse normalizes value (trim, lower-case) and validates it against the
// supported set.
func Parse(value string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range All() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected one of module, system, refmanual)", services.ErrUnsupportedFormat, value)
}

func (f Format) String() string { return string(f) }

// Job is the input of one emission.
type Job struct {
	SectorName string
	// OutputDir is the directory artifacts are written into. It is created on demand.
	OutputDir string
	Worlds    []world.World
}

// Emitter serializes a Job into one or more artifacts and returns their paths.
type Emitter interface {
	Format() Format
	Emit(ctx context.Context, job Job, sink progress.Sink) ([]string, error)
}

// Registry maps formats to emitters.
type Registry struct {
	emitters map[Format]Emitter
}

// NewRegistry builds a registry from emitters. Later entries replace earlier
// ones registered for the same format.
func NewRegistry(emitters ...Emitter) *Registry {
	r := &Registry{emitters: make(map[Format]Emitter, len(emitters))}
	for _, e := range emitters {
		if e != nil {
			r.emitters[e.Format()] = e
		}
	}
	return r
}

// DefaultRegistry returns a registry with every built-in emitter.
func DefaultRegistry() *Registry {
	return NewRegistry(NewModuleEmitter(), NewSystemEmitter(), NewRefManualEmitter())
}

// Lookup returns the emitter registered for f.
func (r *Registry) Lookup(f Format) (Emitter, error) {
	if r != nil {
		if e, ok := r.emitters[f]; ok {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: no emitter registered for %q", services.ErrUnsupportedFormat, f)
}

func emissionError(operation string, err error) error {
	return services.Wrap(services.ErrEmission, "format", operation, "write output", err)
}
