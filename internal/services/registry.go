package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"trip-wizard-service/internal/domain"
)

var ErrUnknownWizard = errors.New("unknown wizard kind")

// WizardFactory builds an unmounted controller for kind.
type WizardFactory func(kind domain.WizardKind) *WizardController

// WizardRegistry hands out one mounted, running controller per configured
// wizard kind. Kinds outside the configured set are refused, so the number
// of controllers and sweepers is fixed by configuration.
type WizardRegistry struct {
	mu          sync.Mutex
	ctx         context.Context
	factory     WizardFactory
	kinds       map[domain.WizardKind]bool
	controllers map[domain.WizardKind]*WizardController
}

// NewWizardRegistry returns a registry serving kinds whose sweepers live
// until ctx ends or StopAll is called.
func NewWizardRegistry(ctx context.Context, kinds []domain.WizardKind, factory WizardFactory) *WizardRegistry {
	allowed := make(map[domain.WizardKind]bool, len(kinds))
	for _, k := range kinds {
		allowed[k] = true
	}

	return &WizardRegistry{
		ctx:         ctx,
		factory:     factory,
		kinds:       allowed,
		controllers: make(map[domain.WizardKind]*WizardController),
	}
}

// Get returns the controller for kind, mounting and starting it on first use.
func (r *WizardRegistry) Get(kind domain.WizardKind) (*WizardController, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.kinds[kind] {
		return nil, fmt.Errorf("wizard %q: %w", kind, ErrUnknownWizard)
	}

	if w, ok := r.controllers[kind]; ok {
		return w, nil
	}

	w := r.factory(kind)
	w.Mount(r.ctx)
	w.Start(r.ctx)
	r.controllers[kind] = w
	return w, nil
}

// StopAll stops every controller's sweeper.
func (r *WizardRegistry) StopAll() {
	r.mu.Lock()
	controllers := make([]*WizardController, 0, len(r.controllers))
	for _, w := range r.controllers {
		controllers = append(controllers, w)
	}
	r.mu.Unlock()

	for _, w := range controllers {
		w.Stop()
	}
}
