package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"trip-wizard-service/internal/domain"

	"github.com/sirupsen/logrus"
)

var ErrUnknownPage = errors.New("unknown wizard page")

var (
	successor = map[domain.Page]domain.Page{
		domain.PageAddresses:    domain.PageTimeSchedule,
		domain.PageTimeSchedule: domain.PageConfirmation,
	}
	predecessor = map[domain.Page]domain.Page{
		domain.PageTimeSchedule: domain.PageAddresses,
		domain.PageConfirmation: domain.PageTimeSchedule,
	}
)

// WizardController drives the page flow of one wizard kind and keeps its
// session persisted.
//
// The in-memory state is authoritative. Every change is written through the
// SessionStore while the controller lock is held, so writes complete in the
// order they were issued. Storage failures never block a transition.
//
// Page transitions do not validate; callers check a page before moving
// forward from it.
type WizardController struct {
	mu         sync.Mutex
	kind       domain.WizardKind
	sessions   *SessionStore
	pricing    PricingEstimator
	sweepEvery time.Duration

	state   domain.SessionRecord
	visited map[domain.Page]bool

	cancel context.CancelFunc
	done   chan struct{}
}

func NewWizardController(sessions *SessionStore, pricing PricingEstimator, sweepEvery time.Duration) *WizardController {
	if sweepEvery <= 0 {
		sweepEvery = SessionTTL
	}

	w := &WizardController{
		kind:       sessions.Kind,
		sessions:   sessions,
		pricing:    pricing,
		sweepEvery: sweepEvery,
	}
	w.reset()
	return w
}

func (w *WizardController) reset() {
	w.state = domain.SessionRecord{WizardKind: w.kind, CurrentPage: domain.PageAddresses}
	w.visited = map[domain.Page]bool{domain.PageAddresses: true}
}

func (w *WizardController) log() *logrus.Entry {
	return logrus.WithFields(logrus.Fields{"wizard": w.kind, "page": w.state.CurrentPage})
}

// Mount discards a stale session, then resumes the stored one if any.
// A resumed wizard always restarts on the addresses page; data from later
// pages is kept for reuse once the user moves forward again.
func (w *WizardController) Mount(ctx context.Context) domain.SessionRecord {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.sessions.CheckAndClearExpired(ctx)

	w.reset()
	if rec := w.sessions.Load(ctx); rec != nil {
		w.state = *rec
		w.state.WizardKind = w.kind
		w.state.CurrentPage = domain.PageAddresses
		w.log().Info("resumed wizard session")
	}

	return w.snapshot()
}

// Snapshot returns a copy of the current state.
func (w *WizardController) Snapshot() domain.SessionRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot()
}

func (w *WizardController) snapshot() domain.SessionRecord {
	rec := w.state
	if rec.AddressData != nil {
		ad := *rec.AddressData
		ad.Addresses = append([]domain.RoutePoint(nil), ad.Addresses...)
		rec.AddressData = &ad
	}
	if rec.ScheduleData != nil {
		sd := rec.ScheduleData.Clone()
		rec.ScheduleData = &sd
	}
	return rec
}

func (w *WizardController) CurrentPage() domain.Page {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.CurrentPage
}

// Visited lists the pages reached since mount, in flow order.
func (w *WizardController) Visited() []domain.Page {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]domain.Page, 0, len(domain.Pages))
	for _, p := range domain.Pages {
		if w.visited[p] {
			out = append(out, p)
		}
	}
	return out
}

// CanJumpTo reports whether page was already visited and may be reached
// from the progress indicator without validation.
func (w *WizardController) CanJumpTo(page domain.Page) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visited[page]
}

// GoToPage moves to page and persists the change.
func (w *WizardController) GoToPage(ctx context.Context, page domain.Page) error {
	if !page.Valid() {
		return fmt.Errorf("go to page %q: %w", page, ErrUnknownPage)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.moveTo(ctx, page, domain.SessionPatch{})
	return nil
}

// NextPage merges patch into the session and advances to the successor
// page. It reports false, changing nothing, on the last page.
func (w *WizardController) NextPage(ctx context.Context, patch domain.SessionPatch) (domain.Page, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, ok := successor[w.state.CurrentPage]
	if !ok {
		return w.state.CurrentPage, false
	}

	w.moveTo(ctx, next, patch)
	return next, true
}

// PreviousPage steps back one page. It reports false on the first page.
func (w *WizardController) PreviousPage(ctx context.Context) (domain.Page, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev, ok := predecessor[w.state.CurrentPage]
	if !ok {
		return w.state.CurrentPage, false
	}

	w.moveTo(ctx, prev, domain.SessionPatch{})
	return prev, true
}

// Edit records a field change on the current page. Every edit is
// persisted; there is no debouncing.
func (w *WizardController) Edit(ctx context.Context, patch domain.SessionPatch) domain.SessionRecord {
	w.mu.Lock()
	defer w.mu.Unlock()

	patch.CurrentPage = nil
	w.state = w.state.Merge(patch)
	w.persist(ctx)
	return w.snapshot()
}

// SetTime sets one container time of the schedule and persists it. An
// empty value clears the slot.
func (w *WizardController) SetTime(ctx context.Context, b domain.TimeBucket, index int, value string) (domain.SessionRecord, error) {
	return w.editSchedule(ctx, func(sd *domain.ScheduleData) error {
		return sd.SetTime(b, index, value)
	})
}

// ToggleDay selects or deselects a weekday of the schedule and persists it.
func (w *WizardController) ToggleDay(ctx context.Context, d domain.Weekday) (domain.SessionRecord, error) {
	return w.editSchedule(ctx, func(sd *domain.ScheduleData) error {
		return sd.ToggleDay(d)
	})
}

// editSchedule applies fn to a copy of the schedule; state only changes
// when fn succeeds.
func (w *WizardController) editSchedule(ctx context.Context, fn func(*domain.ScheduleData) error) (domain.SessionRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	sd := w.schedule().Clone()
	if err := fn(&sd); err != nil {
		return w.snapshot(), err
	}

	w.state = w.state.Merge(domain.SessionPatch{ScheduleData: &sd})
	w.persist(ctx)
	return w.snapshot(), nil
}

func (w *WizardController) moveTo(ctx context.Context, page domain.Page, patch domain.SessionPatch) {
	patch.CurrentPage = &page
	w.state = w.state.Merge(patch)
	w.visited[page] = true
	w.persist(ctx)
	w.log().Debug("wizard page changed")
}

// persist writes the whole in-memory state as a patch, so a store that lost
// the record (expired or failed) is brought back in line with memory.
func (w *WizardController) persist(ctx context.Context) {
	page := w.state.CurrentPage
	saved := w.sessions.Save(ctx, domain.SessionPatch{
		CurrentPage:  &page,
		AddressData:  w.state.AddressData,
		ScheduleData: w.state.ScheduleData,
	})
	w.state.LastUpdateTimestamp = saved.LastUpdateTimestamp
}

// AddressSet returns the canonical address set of the current state.
func (w *WizardController) AddressSet() domain.AddressSet {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.addressSet()
}

func (w *WizardController) addressSet() domain.AddressSet {
	if w.state.AddressData == nil {
		return domain.AddressSet{}
	}
	return domain.NewAddressSet(w.state.AddressData.Addresses)
}

func (w *WizardController) schedule() domain.ScheduleData {
	if w.state.ScheduleData == nil {
		return domain.NewScheduleData()
	}
	return *w.state.ScheduleData
}

// RoutePlan derives the schedule containers of the current state.
func (w *WizardController) RoutePlan() domain.RoutePlan {
	w.mu.Lock()
	defer w.mu.Unlock()
	return DeriveRoutePlan(w.addressSet(), w.schedule())
}

// ValidateCurrentPage runs the checks that gate leaving the current page
// forward.
func (w *WizardController) ValidateCurrentPage() domain.ValidationResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ValidatePage(w.state)
}

// ValidatePage checks rec's current page. The confirmation page has nothing
// to check.
func ValidatePage(rec domain.SessionRecord) domain.ValidationResult {
	var addr domain.AddressData
	if rec.AddressData != nil {
		addr = *rec.AddressData
	}

	switch rec.CurrentPage {
	case domain.PageAddresses:
		return domain.Validate(addr)
	case domain.PageTimeSchedule:
		sched := domain.NewScheduleData()
		if rec.ScheduleData != nil {
			sched = *rec.ScheduleData
		}
		return ValidateSchedule(domain.NewAddressSet(addr.Addresses), sched)
	default:
		return domain.ValidationResult{IsValid: true, Errors: []string{}}
	}
}

// Quote prices the current addresses for the confirmation page.
func (w *WizardController) Quote() Quote {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.AddressData == nil {
		return Quote{}
	}
	return w.pricing.QuoteAddresses(w.state.AddressData.Addresses)
}

// Complete ends the wizard: the stored session is deleted and the
// controller starts over on the addresses page.
func (w *WizardController) Complete(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.sessions.Clear(ctx)
	w.reset()
	w.log().Info("wizard completed")
}

// Start launches the staleness sweeper. It checks once immediately and
// then every sweep interval until Stop or ctx cancellation.
func (w *WizardController) Start(ctx context.Context) {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	done := w.done
	w.mu.Unlock()

	w.sweep(ctx)

	go func() {
		defer close(done)

		ticker := time.NewTicker(w.sweepEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.sweep(ctx)
			}
		}
	}()
}

// Stop cancels the sweeper and waits for it to exit. It is safe to call
// more than once.
func (w *WizardController) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (w *WizardController) sweep(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sessions.CheckAndClearExpired(ctx) {
		w.log().Info("stale session cleared by sweeper")
	}
}
