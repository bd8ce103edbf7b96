package registry

import "entitygrid/internal/core/ecs"

// ComponentSpec is one entry in a heterogeneous list of components to
// attach to an entity in a single AddComps call. Go has no way to hold
// a slice of "Add[T] calls" for varying T directly, so each entry
// captures its own type parameter at construction time behind this
// interface.
type ComponentSpec interface {
	apply(r *Registry, e ecs.EntityID) error
}

type spec[T any] struct {
	kind       ecs.ComponentKind
	payload    T
	replace    bool
	autoResize bool
}

// SpecOption configures a ComponentSpec built by NewSpec.
type SpecOption func(*specConfig)

type specConfig struct {
	replace    bool
	autoResize bool
}

// WithSpecReplace controls whether this entry overwrites an existing
// payload of the same type on the target entity. Defaults to true.
func WithSpecReplace(replace bool) SpecOption {
	return func(c *specConfig) { c.replace = replace }
}

// WithSpecAutoResize controls whether this entry's store may grow to
// accommodate the new entity. Defaults to true.
func WithSpecAutoResize(autoResize bool) SpecOption {
	return func(c *specConfig) { c.autoResize = autoResize }
}

// NewSpec builds one AddComps entry for a component of type T.
func NewSpec[T any](kind ecs.ComponentKind, payload T, opts ...SpecOption) ComponentSpec {
	cfg := specConfig{replace: true, autoResize: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return spec[T]{kind: kind, payload: payload, replace: cfg.replace, autoResize: cfg.autoResize}
}

func (s spec[T]) apply(r *Registry, e ecs.EntityID) error {
	status, err := Add[T](r, e, s.kind, s.payload, s.replace, s.autoResize)
	if err != nil {
		return err
	}
	if status != ecs.StatusSuccess {
		return ecs.ErrCapacityExceeded
	}
	return nil
}

// AddComps applies a heterogeneous list of component specs to e in
// order. All-or-nothing is not guaranteed: a failure partway through
// the list leaves every earlier entry applied. The first error
// encountered is returned; remaining entries are not attempted.
func AddComps(r *Registry, e ecs.EntityID, specs []ComponentSpec) error {
	if !r.Valid(e) {
		return ecs.ErrInvalidHandleFor(e)
	}
	for _, s := range specs {
		if s == nil {
			return &ecs.OpError{Code: ecs.CodeMalformedAddSpec, Message: "nil component spec in addComps list"}
		}
		if err := s.apply(r, e); err != nil {
			return err
		}
	}
	return nil
}
