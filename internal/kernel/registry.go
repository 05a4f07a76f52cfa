package kernel

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// ErrUnknownBackend is returned when a version has no registered backend.
	ErrUnknownBackend = errors.New("kernel: unknown backend")
	// ErrDuplicateBackend is returned when a version is registered twice.
	ErrDuplicateBackend = errors.New("kernel: backend already registered")
	// ErrNotEquivalent is matched by every *EquivalenceError.
	ErrNotEquivalent = errors.New("kernel: backend not equivalent to reference")
)

// Registry stores the selectable backends keyed by version. The reference
// backend is always present. Backends only become reachable after passing
// Verify against the reference, and are never modified afterwards.
//
// Selection is expected to happen once during start-up; the mutex only
// protects the map itself.
type Registry struct {
	mu       sync.RWMutex
	backends map[Version]*Backend
	features CPUFeatures
	check    VerifyConfig
	logger   zerolog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used to report registrations.
func WithLogger(l zerolog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// WithFeatures overrides the detected CPU features, mostly for tests.
func WithFeatures(f CPUFeatures) RegistryOption {
	return func(r *Registry) { r.features = f }
}

// WithVerifyConfig changes the self-check run by Register.
func WithVerifyConfig(cfg VerifyConfig) RegistryOption {
	return func(r *Registry) { r.check = cfg }
}

// NewRegistry returns a registry holding only the reference backend.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		backends: map[Version]*Backend{VersionReference: reference},
		features: GetCPUFeatures(),
		check:    QuickCheck,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register checks b against the reference backend and installs it.
func (r *Registry) Register(b *Backend) error {
	if b == nil {
		return errors.New("kernel: nil backend")
	}
	r.mu.RLock()
	_, exists := r.backends[b.Version()]
	r.mu.RUnlock()
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateBackend, b)
	}

	if err := Verify(b, reference, r.check); err != nil {
		r.logger.Error().Err(err).Str("backend", b.Name()).Msg("backend rejected")
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.backends[b.Version()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateBackend, b)
	}
	r.backends[b.Version()] = b
	r.logger.Debug().Str("backend", b.Name()).Int("version", int(b.Version())).Msg("backend registered")
	return nil
}

// Lookup returns the backend registered under v.
func (r *Registry) Lookup(v Version) (*Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.backends[v]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, v)
}

// Select resolves v to a backend. VersionAuto yields Best.
func (r *Registry) Select(v Version) (*Backend, error) {
	if v == VersionAuto {
		return r.Best(), nil
	}
	return r.Lookup(v)
}

// Best returns the highest-priority backend supported by the registry's
// CPU features. It falls back to the reference backend.
func (r *Registry) Best() *Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	best := reference
	for _, b := range r.backends {
		if !b.Supported(r.features) {
			continue
		}
		if b.Priority() > best.Priority() ||
			(b.Priority() == best.Priority() && b.Version() > best.Version()) {
			best = b
		}
	}
	return best
}

// List returns all backends ordered by version.
func (r *Registry) List() []*Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Backend, 0, len(r.backends))
	for _, b := range r.backends {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version() < out[j].Version() })
	return out
}

// Names returns the backend names ordered by version.
func (r *Registry) Names() []string {
	list := r.List()
	names := make([]string, len(list))
	for i, b := range list {
		names[i] = b.Name()
	}
	return names
}

// Features returns the CPU features used by Best.
func (r *Registry) Features() CPUFeatures { return r.features }

// ─────────────────────────────────────────────────────────────────────────────
// Process-wide registry
// ─────────────────────────────────────────────────────────────────────────────

var (
	builtins        []*Backend
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// registerBuiltin queues a backend for the default registry. It is called
// from init functions only.
func registerBuiltin(b *Backend) {
	builtins = append(builtins, b)
}

// Default returns the process registry holding every built-in backend that
// passed its self-check.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, b := range builtins {
			// A rejected backend is logged by Register and stays unreachable.
			_ = defaultRegistry.Register(b)
		}
	})
	return defaultRegistry
}

// Select resolves v against the default registry.
func Select(v Version) (*Backend, error) {
	return Default().Select(v)
}

// Builtins returns every compiled-in backend, including the reference one,
// whether or not it passed registration.
func Builtins() []*Backend {
	out := append([]*Backend{reference}, builtins...)
	sort.Slice(out, func(i, j int) bool { return out[i].Version() < out[j].Version() })
	return out
}
