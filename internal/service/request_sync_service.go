package service

import (
	"context"
	"errors"
	"sync"

	"pharmalink/internal/domain/entity"
	"pharmalink/internal/domain/repository"
	"pharmalink/internal/metrics"
	"pharmalink/internal/realtime"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"gorm.io/gorm"
)

var (
	ErrSyncActorRequired  = errors.New("sync requires an actor id and role")
	ErrSyncAlreadyStarted = errors.New("sync already started")
	ErrSyncNotStarted     = errors.New("sync not started")
	ErrSyncClosed         = errors.New("sync closed")
)

// HapticStyle is the kind of haptic pulse requested from the device.
type HapticStyle string

const (
	HapticLight        HapticStyle = "light"
	HapticNotification HapticStyle = "notification"
)

// Pulser triggers haptic feedback on the actor's device. A nil Pulser means
// the platform does not support it.
type Pulser interface {
	Pulse(ctx context.Context, style HapticStyle)
}

// DemandeLoader runs the demande query the sync keeps fresh.
type DemandeLoader interface {
	LoadDemandes(ctx context.Context, filter entity.DemandeFilter) ([]entity.Demande, error)
}

type repositoryLoader struct {
	db   *gorm.DB
	repo repository.DemandeRepository
}

// NewDemandeLoader loads demandes with their client profile and propositions.
func NewDemandeLoader(db *gorm.DB, repo repository.DemandeRepository) DemandeLoader {
	return &repositoryLoader{db: db, repo: repo}
}

func (l *repositoryLoader) LoadDemandes(ctx context.Context, filter entity.DemandeFilter) ([]entity.Demande, error) {
	return l.repo.FindAll(l.db.WithContext(ctx), filter)
}

// SyncOptions configures which demandes a RequestSync follows.
type SyncOptions struct {
	Status        entity.DemandeStatus // empty follows every status
	UserID        uuid.UUID
	Role          entity.Role
	Limit         int
	EnableHaptics bool

	// OnNewDemande runs once per observed demande insert.
	OnNewDemande func(realtime.Event)
	// OnNewProposition runs once per observed proposition insert.
	OnNewProposition func(realtime.Event)
	// OnChange receives every snapshot that replaced the cache, in order.
	// It must not call back into the sync synchronously.
	OnChange func(SyncSnapshot)
}

func (o SyncOptions) sameScope(other SyncOptions) bool {
	return o.Status == other.Status && o.UserID == other.UserID && o.Role == other.Role
}

func (o SyncOptions) filter() entity.DemandeFilter {
	filter := entity.DemandeFilter{Status: o.Status, Limit: o.Limit}
	if o.Role == entity.RoleClient {
		id := o.UserID
		filter.ClientID = &id
	}
	return filter
}

// feedFilters subscribes to every change on the actor's demandes and to every
// proposition insert, since propositions are only visible through their demande.
func (o SyncOptions) feedFilters() []realtime.Filter {
	demandes := realtime.Filter{Table: realtime.TableDemandes, Type: realtime.EventAll}
	if o.Role == entity.RoleClient {
		demandes.Column = "client_id"
		demandes.Value = o.UserID.String()
	}
	return []realtime.Filter{
		demandes,
		{Table: realtime.TablePropositions, Type: realtime.EventInsert},
	}
}

// SyncSnapshot is a consistent copy of the sync state.
type SyncSnapshot struct {
	Demandes []entity.Demande
	Stats    entity.DemandeStats
	Err      error
	Loading  bool
}

// syncRun is one subscription lifetime. Reconfiguring replaces the run.
type syncRun struct {
	opts    SyncOptions
	ctx     context.Context
	cancel  context.CancelFunc
	sub     *realtime.Subscription
	done    chan struct{}
	fetches conc.WaitGroup
}

// RequestSync keeps an always-fresh list of the demandes relevant to one actor.
//
// Every change event triggers a full re-fetch. Re-fetches may overlap; each one
// carries a sequence number and a response is applied only when it is newer
// than the last applied one. Load errors are recorded without clearing the
// cached demandes.
type RequestSync struct {
	loader  DemandeLoader
	feed    realtime.Feed
	pulser  Pulser
	log     *logrus.Logger
	metrics *metrics.Metrics

	mu       sync.Mutex
	run      *syncRun
	closed   bool
	demandes []entity.Demande
	stats    entity.DemandeStats
	err      error
	issued   uint64
	applied  uint64

	notifyMu sync.Mutex
	notified uint64
}

func NewRequestSync(loader DemandeLoader, feed realtime.Feed, pulser Pulser, log *logrus.Logger, m *metrics.Metrics) *RequestSync {
	return &RequestSync{
		loader:   loader,
		feed:     feed,
		pulser:   pulser,
		log:      log,
		metrics:  m,
		demandes: []entity.Demande{},
	}
}

// Start loads the demandes and subscribes to their changes. The subscription
// stays open even when the initial load fails; the error is also recorded.
func (s *RequestSync) Start(ctx context.Context, opts SyncOptions) error {
	if opts.UserID == uuid.Nil || !opts.Role.IsValid() {
		return ErrSyncActorRequired
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSyncClosed
	}
	if s.run != nil {
		s.mu.Unlock()
		return ErrSyncAlreadyStarted
	}
	run := s.startRunLocked(ctx, opts)
	s.mu.Unlock()

	return s.fetch(run)
}

// Reconfigure applies new options. Changing the status, the actor id or the
// actor role releases the current subscription and opens a new one; other
// changes keep the subscription and re-fetch.
func (s *RequestSync) Reconfigure(ctx context.Context, opts SyncOptions) error {
	if opts.UserID == uuid.Nil || !opts.Role.IsValid() {
		return ErrSyncActorRequired
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSyncClosed
	}
	old := s.run
	if old == nil {
		s.mu.Unlock()
		return ErrSyncNotStarted
	}

	if old.opts.sameScope(opts) {
		old.opts = opts
		s.mu.Unlock()
		return s.fetch(old)
	}

	s.run = nil
	s.mu.Unlock()
	s.stopRun(old)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSyncClosed
	}
	run := s.startRunLocked(ctx, opts)
	s.mu.Unlock()

	return s.fetch(run)
}

// Refresh pulses the device lightly and re-fetches.
func (s *RequestSync) Refresh(ctx context.Context) error {
	s.mu.Lock()
	run := s.run
	s.mu.Unlock()
	if run == nil {
		return ErrSyncNotStarted
	}

	if s.pulser != nil {
		s.pulser.Pulse(ctx, HapticLight)
	}
	return s.fetch(run)
}

// Close releases the subscription. In-flight re-fetches are cancelled and
// their results discarded.
func (s *RequestSync) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	run := s.run
	s.run = nil
	s.mu.Unlock()

	if run != nil {
		s.stopRun(run)
	}
}

// Snapshot returns a copy of the current cache, stats and last load error.
func (s *RequestSync) Snapshot() SyncSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Stats returns the per-status counts of the cached demandes.
func (s *RequestSync) Stats() entity.DemandeStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *RequestSync) snapshotLocked() SyncSnapshot {
	demandes := make([]entity.Demande, len(s.demandes))
	copy(demandes, s.demandes)
	return SyncSnapshot{
		Demandes: demandes,
		Stats:    s.stats,
		Err:      s.err,
		Loading:  s.applied < s.issued,
	}
}

func (s *RequestSync) startRunLocked(parent context.Context, opts SyncOptions) *syncRun {
	ctx, cancel := context.WithCancel(parent)
	run := &syncRun{
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		sub:    s.feed.Subscribe(opts.feedFilters()...),
		done:   make(chan struct{}),
	}
	s.run = run
	go s.loop(run)
	return run
}

func (s *RequestSync) stopRun(run *syncRun) {
	run.cancel()
	run.sub.Unsubscribe()
	<-run.done
	run.fetches.Wait()
}

func (s *RequestSync) loop(run *syncRun) {
	defer close(run.done)
	for event := range run.sub.Events() {
		// buffered events may still drain after Unsubscribe
		if run.ctx.Err() != nil {
			return
		}
		s.observe(run, event)
		run.fetches.Go(func() {
			_ = s.fetch(run)
		})
	}
}

func (s *RequestSync) observe(run *syncRun, event realtime.Event) {
	if event.Type != realtime.EventInsert {
		return
	}

	s.mu.Lock()
	opts := run.opts
	s.mu.Unlock()

	var callback func(realtime.Event)
	switch event.Table {
	case realtime.TableDemandes:
		callback = opts.OnNewDemande
	case realtime.TablePropositions:
		callback = opts.OnNewProposition
	default:
		return
	}

	if opts.EnableHaptics && s.pulser != nil {
		s.pulser.Pulse(run.ctx, HapticNotification)
	}
	if callback != nil {
		callback(event)
	}
}

// fetch re-issues the demande query for run and applies the result if it is
// still the newest one.
func (s *RequestSync) fetch(run *syncRun) error {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	filter := run.opts.filter()
	s.mu.Unlock()

	demandes, err := s.loader.LoadDemandes(run.ctx, filter)

	s.mu.Lock()
	if s.run != run || seq <= s.applied {
		s.mu.Unlock()
		s.metrics.Refetch(metrics.RefetchStale)
		return err
	}
	s.applied = seq
	if err != nil {
		s.err = err
		s.metrics.Refetch(metrics.RefetchError)
		if s.log != nil {
			s.log.Warnf("Failed to load demandes for %s %s: %+v", run.opts.Role, run.opts.UserID, err)
		}
	} else {
		if demandes == nil {
			demandes = []entity.Demande{}
		}
		s.demandes = demandes
		s.stats = entity.ComputeDemandeStats(demandes)
		s.err = nil
		s.metrics.Refetch(metrics.RefetchApplied)
	}
	snapshot := s.snapshotLocked()
	onChange := run.opts.OnChange
	s.mu.Unlock()

	if onChange != nil {
		s.notifyMu.Lock()
		if seq > s.notified {
			s.notified = seq
			onChange(snapshot)
		}
		s.notifyMu.Unlock()
	}
	return err
}
