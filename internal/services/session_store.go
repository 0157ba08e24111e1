package services

import (
	"context"
	"encoding/json"
	"time"
	"trip-wizard-service/internal/domain"
	"trip-wizard-service/internal/ports"

	"github.com/sirupsen/logrus"
)

// SessionTTL is how long a session may sit untouched before it is discarded.
const SessionTTL = 5 * time.Minute

// SessionStore persists the in-progress state of one wizard kind under
// "{kind}_session".
//
// Storage failures are logged and swallowed here: callers keep serving from
// memory and only lose resumability across restarts.
type SessionStore struct {
	Store ports.KeyValueStore
	Kind  domain.WizardKind
	TTL   time.Duration
	Now   func() time.Time
}

func NewSessionStore(store ports.KeyValueStore, kind domain.WizardKind) *SessionStore {
	return &SessionStore{
		Store: store,
		Kind:  kind,
		TTL:   SessionTTL,
		Now:   time.Now,
	}
}

func (s *SessionStore) log() *logrus.Entry {
	return logrus.WithFields(logrus.Fields{"wizard": s.Kind, "key": s.Kind.SessionKey()})
}

// Save merges patch over the stored record, stamps it and writes it back.
// It returns the merged record whether or not the write succeeded.
func (s *SessionStore) Save(ctx context.Context, patch domain.SessionPatch) domain.SessionRecord {
	rec := domain.SessionRecord{WizardKind: s.Kind, CurrentPage: domain.PageAddresses}
	if existing := s.Load(ctx); existing != nil {
		rec = *existing
	}

	rec = rec.Merge(patch)
	rec.WizardKind = s.Kind

	// Never move the timestamp backwards, even if the clock does.
	if now := s.Now().UnixMilli(); now > rec.LastUpdateTimestamp {
		rec.LastUpdateTimestamp = now
	}

	b, err := json.Marshal(rec)
	if err != nil {
		s.log().WithError(err).Error("session save: encode failed")
		return rec
	}

	if err := s.Store.Set(ctx, s.Kind.SessionKey(), string(b)); err != nil {
		s.log().WithError(err).Warn("session save failed")
	}
	return rec
}

// Load returns the stored record, or nil when there is none or it cannot
// be read.
func (s *SessionStore) Load(ctx context.Context) *domain.SessionRecord {
	raw, ok, err := s.Store.Get(ctx, s.Kind.SessionKey())
	if err != nil {
		s.log().WithError(err).Warn("session load failed")
		return nil
	}
	if !ok {
		return nil
	}

	var rec domain.SessionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		s.log().WithError(err).Warn("session load: stored record is corrupt")
		return nil
	}
	return &rec
}

// Clear removes the record. Clearing an absent record is a no-op.
func (s *SessionStore) Clear(ctx context.Context) {
	if err := s.Store.Remove(ctx, s.Kind.SessionKey()); err != nil {
		s.log().WithError(err).Warn("session clear failed")
	}
}

// Expired reports whether rec has been idle for strictly longer than the
// TTL. A record exactly TTL old is still live.
func (s *SessionStore) Expired(rec domain.SessionRecord) bool {
	return s.Now().UnixMilli()-rec.LastUpdateTimestamp > s.TTL.Milliseconds()
}

// CheckAndClearExpired clears the stored record if it is stale and reports
// whether it did.
func (s *SessionStore) CheckAndClearExpired(ctx context.Context) bool {
	rec := s.Load(ctx)
	if rec == nil || !s.Expired(*rec) {
		return false
	}

	s.log().WithField("last_update", rec.LastUpdateTimestamp).Info("clearing stale session")
	s.Clear(ctx)
	return true
}
