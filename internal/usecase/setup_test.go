package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"pharmalink/config"
	"pharmalink/internal/delivery/http/middleware"
	"pharmalink/internal/domain/entity"
	domainRepo "pharmalink/internal/domain/repository"
	"pharmalink/internal/realtime"
	"pharmalink/internal/repository"
	"pharmalink/internal/service"
	"pharmalink/internal/testutil"
	"pharmalink/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// countingDemandeRepo records how often the store was asked to change a status.
type countingDemandeRepo struct {
	domainRepo.DemandeRepository
	writes atomic.Int32
}

func (r *countingDemandeRepo) MarkInProgress(db *gorm.DB, id uuid.UUID, agentID uuid.UUID) (int64, error) {
	r.writes.Add(1)
	return r.DemandeRepository.MarkInProgress(db, id, agentID)
}

func (r *countingDemandeRepo) MarkTreated(db *gorm.DB, id uuid.UUID, agentID uuid.UUID) (int64, error) {
	r.writes.Add(1)
	return r.DemandeRepository.MarkTreated(db, id, agentID)
}

type countingPropositionRepo struct {
	domainRepo.PropositionRepository
	writes atomic.Int32
}

func (r *countingPropositionRepo) CreateBatch(db *gorm.DB, propositions []entity.Proposition) error {
	r.writes.Add(1)
	return r.PropositionRepository.CreateBatch(db, propositions)
}

type fixture struct {
	db              *gorm.DB
	broker          *realtime.Broker
	demandeRepo     *countingDemandeRepo
	propositionRepo *countingPropositionRepo
	demandes        DemandeUsecase
	gardes          GardeUsecase
	pharmacies      PharmacyUsecase
	auth            AuthUsecase
	auditLogs       AuditLogUsecase
	tokens          *testutil.MemoryTokenStore
	jwt             *jwt.JWTService
}

// wednesday is a fixed clock inside the week of Monday 2026-10-12.
var wednesday = time.Date(2026, time.October, 14, 10, 30, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.NewLogger()
	broker := realtime.NewBroker(64, log, nil)
	t.Cleanup(broker.Close)

	audit := service.NewAuditService(log, repository.NewAuditLogRepository())
	demandeRepo := &countingDemandeRepo{DemandeRepository: repository.NewDemandeRepository()}
	propositionRepo := &countingPropositionRepo{PropositionRepository: repository.NewPropositionRepository()}
	tokens := testutil.NewMemoryTokenStore()
	jwtService := jwt.NewJWTService(testJWTConfig())

	return &fixture{
		db:              db,
		broker:          broker,
		demandeRepo:     demandeRepo,
		propositionRepo: propositionRepo,
		demandes:        NewDemandeUsecase(db, log, demandeRepo, propositionRepo, audit, broker, nil),
		gardes: NewGardeUsecase(db, log, repository.NewPharmacyRepository(), repository.NewPharmacyOnDutyRepository(),
			audit, broker, time.UTC, func() time.Time { return wednesday }),
		pharmacies: NewPharmacyUsecase(db, log, repository.NewPharmacyRepository()),
		auth: NewAuthUsecase(db, log, repository.NewAuthUserRepository(), repository.NewProfileRepository(),
			audit, jwtService, tokens),
		auditLogs: NewAuditLogUsecase(db, log, repository.NewAuditLogRepository()),
		tokens:    tokens,
		jwt:       jwtService,
	}
}

func (f *fixture) newProfile(t *testing.T, role entity.Role) uuid.UUID {
	t.Helper()
	id := uuid.New()
	phone := fmt.Sprintf("+22507%08d", id.ID()%100000000)
	require.NoError(t, f.db.Create(&entity.Profile{ID: id, Phone: phone, Role: role}).Error)
	return id
}

func (f *fixture) newPharmacy(t *testing.T, nom, quartier string, actif bool) uuid.UUID {
	t.Helper()
	p := &entity.Pharmacy{Nom: nom, Matricule: uuid.NewString()[:8], Quartier: quartier, Actif: actif}
	require.NoError(t, f.db.Create(p).Error)
	return p.ID
}

func (f *fixture) demandeStatus(t *testing.T, id uuid.UUID) entity.Demande {
	t.Helper()
	var d entity.Demande
	require.NoError(t, f.db.First(&d, "id = ?", id).Error)
	return d
}

func actorCtx(id uuid.UUID, role entity.Role) context.Context {
	return middleware.ContextWithClaims(context.Background(), &jwt.Claims{
		UserID:  id,
		Role:    string(role),
		Phone:   "+2250700000000",
		TokenID: uuid.NewString(),
	})
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	}
}
