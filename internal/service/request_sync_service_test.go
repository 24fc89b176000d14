package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pharmalink/internal/domain/entity"
	"pharmalink/internal/realtime"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loadFunc func(ctx context.Context, filter entity.DemandeFilter) ([]entity.Demande, error)

type fakeLoader struct {
	mu      sync.Mutex
	calls   []entity.DemandeFilter
	steps   []loadFunc
	fallback loadFunc
}

func (f *fakeLoader) LoadDemandes(ctx context.Context, filter entity.DemandeFilter) ([]entity.Demande, error) {
	f.mu.Lock()
	idx := len(f.calls)
	f.calls = append(f.calls, filter)
	step := f.fallback
	if idx < len(f.steps) {
		step = f.steps[idx]
	}
	f.mu.Unlock()
	if step == nil {
		return nil, nil
	}
	return step(ctx, filter)
}

func (f *fakeLoader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeLoader) lastFilter() entity.DemandeFilter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func returns(demandes ...entity.Demande) loadFunc {
	return func(context.Context, entity.DemandeFilter) ([]entity.Demande, error) {
		return demandes, nil
	}
}

type recordingPulser struct {
	mu     sync.Mutex
	styles []HapticStyle
}

func (p *recordingPulser) Pulse(_ context.Context, style HapticStyle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.styles = append(p.styles, style)
}

func (p *recordingPulser) all() []HapticStyle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]HapticStyle(nil), p.styles...)
}

func demande(status entity.DemandeStatus) entity.Demande {
	return entity.Demande{ID: uuid.New(), ClientID: uuid.New(), MedicamentNom: "Paracétamol 500mg", Status: status}
}

func TestStartLoadsClientScopedDemandes(t *testing.T) {
	loader := &fakeLoader{steps: []loadFunc{returns(
		demande(entity.DemandeStatusEnAttente),
		demande(entity.DemandeStatusEnCours),
		demande(entity.DemandeStatusTraite),
		demande(entity.DemandeStatusTraite),
	)}}
	broker := realtime.NewBroker(8, nil, nil)
	sync := NewRequestSync(loader, broker, nil, nil, nil)
	defer sync.Close()

	clientID := uuid.New()
	require.NoError(t, sync.Start(context.Background(), SyncOptions{
		UserID: clientID,
		Role:   entity.RoleClient,
		Status: entity.DemandeStatusTraite,
		Limit:  20,
	}))

	filter := loader.lastFilter()
	require.NotNil(t, filter.ClientID)
	assert.Equal(t, clientID, *filter.ClientID)
	assert.Equal(t, entity.DemandeStatusTraite, filter.Status)
	assert.Equal(t, 20, filter.Limit)

	stats := sync.Stats()
	assert.Equal(t, entity.DemandeStats{Total: 4, EnAttente: 1, EnCours: 1, Traite: 2}, stats)
	assert.Equal(t, stats.Total, stats.EnAttente+stats.EnCours+stats.Traite)
	assert.Equal(t, 1, broker.Len())
}

func TestStartAgentSeesEveryDemande(t *testing.T) {
	loader := &fakeLoader{}
	sync := NewRequestSync(loader, realtime.NewBroker(8, nil, nil), nil, nil, nil)
	defer sync.Close()

	require.NoError(t, sync.Start(context.Background(), SyncOptions{UserID: uuid.New(), Role: entity.RoleAgent}))
	assert.Nil(t, loader.lastFilter().ClientID)

	snap := sync.Snapshot()
	assert.NotNil(t, snap.Demandes)
	assert.Empty(t, snap.Demandes)
	assert.Equal(t, 0, snap.Stats.Total)
}

func TestStartRequiresActor(t *testing.T) {
	sync := NewRequestSync(&fakeLoader{}, realtime.NewBroker(8, nil, nil), nil, nil, nil)
	assert.ErrorIs(t, sync.Start(context.Background(), SyncOptions{Role: entity.RoleClient}), ErrSyncActorRequired)
	assert.ErrorIs(t, sync.Start(context.Background(), SyncOptions{UserID: uuid.New(), Role: "ADMIN"}), ErrSyncActorRequired)
	assert.ErrorIs(t, sync.Refresh(context.Background()), ErrSyncNotStarted)
}

func TestInsertEventFiresCallbackOnceAndRefetches(t *testing.T) {
	first := demande(entity.DemandeStatusEnAttente)
	second := demande(entity.DemandeStatusEnAttente)
	loader := &fakeLoader{steps: []loadFunc{returns(first)}, fallback: returns(second, first)}
	broker := realtime.NewBroker(8, nil, nil)
	pulser := &recordingPulser{}

	var mu sync.Mutex
	var newDemandes, newPropositions int
	var snapshots []SyncSnapshot

	rs := NewRequestSync(loader, broker, pulser, nil, nil)
	defer rs.Close()

	require.NoError(t, rs.Start(context.Background(), SyncOptions{
		UserID:        uuid.New(),
		Role:          entity.RoleAgent,
		EnableHaptics: true,
		OnNewDemande: func(realtime.Event) {
			mu.Lock()
			newDemandes++
			mu.Unlock()
		},
		OnNewProposition: func(realtime.Event) {
			mu.Lock()
			newPropositions++
			mu.Unlock()
		},
		OnChange: func(s SyncSnapshot) {
			mu.Lock()
			snapshots = append(snapshots, s)
			mu.Unlock()
		},
	}))

	broker.Dispatch(realtime.Event{Table: realtime.TableDemandes, Type: realtime.EventInsert})
	broker.Dispatch(realtime.Event{Table: realtime.TableDemandes, Type: realtime.EventUpdate})

	assert.Eventually(t, func() bool { return loader.callCount() == 3 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return rs.Stats().Total == 2 }, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, 1, newDemandes)
	assert.Equal(t, 0, newPropositions)
	assert.NotEmpty(t, snapshots)
	mu.Unlock()
	assert.Equal(t, []HapticStyle{HapticNotification}, pulser.all())
}

func TestPropositionInsertReachesClientSync(t *testing.T) {
	clientID := uuid.New()
	loader := &fakeLoader{}
	broker := realtime.NewBroker(8, nil, nil)

	offers := make(chan realtime.Event, 1)
	rs := NewRequestSync(loader, broker, nil, nil, nil)
	defer rs.Close()
	require.NoError(t, rs.Start(context.Background(), SyncOptions{
		UserID:           clientID,
		Role:             entity.RoleClient,
		OnNewProposition: func(e realtime.Event) { offers <- e },
	}))

	// another client's demande is filtered out server-side
	broker.Dispatch(realtime.Event{Table: realtime.TableDemandes, Type: realtime.EventUpdate,
		Record: map[string]interface{}{"client_id": uuid.New().String()}})
	broker.Dispatch(realtime.Event{Table: realtime.TablePropositions, Type: realtime.EventInsert,
		Record: map[string]interface{}{"demande_id": uuid.New().String()}})

	select {
	case e := <-offers:
		assert.Equal(t, realtime.TablePropositions, e.Table)
	case <-time.After(time.Second):
		t.Fatal("proposition callback not called")
	}
	assert.Eventually(t, func() bool { return loader.callCount() == 2 }, time.Second, 5*time.Millisecond)
}

func TestFailedRefetchKeepsStaleData(t *testing.T) {
	boom := errors.New("network down")
	kept := demande(entity.DemandeStatusEnCours)
	loader := &fakeLoader{steps: []loadFunc{
		returns(kept),
		func(context.Context, entity.DemandeFilter) ([]entity.Demande, error) { return nil, boom },
		returns(),
	}}
	rs := NewRequestSync(loader, realtime.NewBroker(8, nil, nil), nil, nil, nil)
	defer rs.Close()

	require.NoError(t, rs.Start(context.Background(), SyncOptions{UserID: uuid.New(), Role: entity.RoleAgent}))

	err := rs.Refresh(context.Background())
	assert.ErrorIs(t, err, boom)

	snap := rs.Snapshot()
	assert.ErrorIs(t, snap.Err, boom)
	require.Len(t, snap.Demandes, 1)
	assert.Equal(t, kept.ID, snap.Demandes[0].ID)

	require.NoError(t, rs.Refresh(context.Background()))
	snap = rs.Snapshot()
	assert.NoError(t, snap.Err)
	assert.Empty(t, snap.Demandes)
}

func TestInitialLoadErrorIsRecordedAndSubscriptionKept(t *testing.T) {
	boom := errors.New("permission denied")
	loader := &fakeLoader{steps: []loadFunc{
		func(context.Context, entity.DemandeFilter) ([]entity.Demande, error) { return nil, boom },
	}}
	broker := realtime.NewBroker(8, nil, nil)
	rs := NewRequestSync(loader, broker, nil, nil, nil)
	defer rs.Close()

	assert.ErrorIs(t, rs.Start(context.Background(), SyncOptions{UserID: uuid.New(), Role: entity.RoleAgent}), boom)
	assert.ErrorIs(t, rs.Snapshot().Err, boom)
	assert.Equal(t, 1, broker.Len())
}

func TestOlderResponseIsDiscarded(t *testing.T) {
	v1 := demande(entity.DemandeStatusEnAttente)
	v2 := demande(entity.DemandeStatusEnCours)
	v3 := demande(entity.DemandeStatusTraite)

	started := make(chan struct{})
	release := make(chan struct{})
	loader := &fakeLoader{steps: []loadFunc{
		returns(v1),
		func(context.Context, entity.DemandeFilter) ([]entity.Demande, error) {
			close(started)
			<-release
			return []entity.Demande{v2}, nil
		},
		returns(v3),
	}}
	rs := NewRequestSync(loader, realtime.NewBroker(8, nil, nil), nil, nil, nil)
	defer rs.Close()
	require.NoError(t, rs.Start(context.Background(), SyncOptions{UserID: uuid.New(), Role: entity.RoleAgent}))

	slow := make(chan error, 1)
	go func() { slow <- rs.Refresh(context.Background()) }()
	<-started

	require.NoError(t, rs.Refresh(context.Background()))
	assert.Equal(t, v3.ID, rs.Snapshot().Demandes[0].ID)
	assert.True(t, rs.Snapshot().Loading)

	close(release)
	require.NoError(t, <-slow)

	snap := rs.Snapshot()
	require.Len(t, snap.Demandes, 1)
	assert.Equal(t, v3.ID, snap.Demandes[0].ID)
	assert.Equal(t, entity.DemandeStats{Total: 1, Traite: 1}, snap.Stats)
}

func TestReconfigureReleasesOldSubscription(t *testing.T) {
	loader := &fakeLoader{}
	broker := realtime.NewBroker(8, nil, nil)

	calls := make(chan string, 4)
	rs := NewRequestSync(loader, broker, nil, nil, nil)

	clientA := uuid.New()
	require.NoError(t, rs.Start(context.Background(), SyncOptions{
		UserID:       clientA,
		Role:         entity.RoleClient,
		OnNewDemande: func(realtime.Event) { calls <- "a" },
	}))

	clientB := uuid.New()
	require.NoError(t, rs.Reconfigure(context.Background(), SyncOptions{
		UserID:       clientB,
		Role:         entity.RoleClient,
		OnNewDemande: func(realtime.Event) { calls <- "b" },
	}))
	assert.Equal(t, 1, broker.Len())
	assert.Equal(t, clientB, *loader.lastFilter().ClientID)

	broker.Dispatch(realtime.Event{Table: realtime.TableDemandes, Type: realtime.EventInsert,
		Record: map[string]interface{}{"client_id": clientA.String()}})
	broker.Dispatch(realtime.Event{Table: realtime.TableDemandes, Type: realtime.EventInsert,
		Record: map[string]interface{}{"client_id": clientB.String()}})

	select {
	case who := <-calls:
		assert.Equal(t, "b", who)
	case <-time.After(time.Second):
		t.Fatal("callback not called")
	}

	rs.Close()
	assert.Equal(t, 0, broker.Len())
	assert.Empty(t, calls)
	assert.ErrorIs(t, rs.Reconfigure(context.Background(), SyncOptions{UserID: clientB, Role: entity.RoleClient}), ErrSyncClosed)
}

func TestReconfigureSameScopeKeepsSubscription(t *testing.T) {
	loader := &fakeLoader{}
	broker := realtime.NewBroker(8, nil, nil)
	rs := NewRequestSync(loader, broker, nil, nil, nil)
	defer rs.Close()

	agent := uuid.New()
	require.NoError(t, rs.Start(context.Background(), SyncOptions{UserID: agent, Role: entity.RoleAgent}))
	require.NoError(t, rs.Reconfigure(context.Background(), SyncOptions{UserID: agent, Role: entity.RoleAgent, Limit: 5}))

	assert.Equal(t, 1, broker.Len())
	assert.Equal(t, 5, loader.lastFilter().Limit)
	assert.Equal(t, 2, loader.callCount())
}

func TestRefreshPulsesLight(t *testing.T) {
	pulser := &recordingPulser{}
	rs := NewRequestSync(&fakeLoader{}, realtime.NewBroker(8, nil, nil), pulser, nil, nil)
	defer rs.Close()

	require.NoError(t, rs.Start(context.Background(), SyncOptions{UserID: uuid.New(), Role: entity.RoleAgent}))
	require.NoError(t, rs.Refresh(context.Background()))
	assert.Equal(t, []HapticStyle{HapticLight}, pulser.all())
}
