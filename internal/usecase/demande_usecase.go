package usecase

import (
	"context"
	"errors"
	"strings"

	"pharmalink/internal/converter"
	"pharmalink/internal/delivery/dto"
	"pharmalink/internal/domain/entity"
	"pharmalink/internal/domain/repository"
	"pharmalink/internal/metrics"
	"pharmalink/internal/realtime"
	"pharmalink/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDemandeNotFound       = errors.New("demande not found")
	ErrDemandeAlreadyClaimed = errors.New("demande already claimed by another agent")
	ErrDemandeAlreadyTreated = errors.New("demande already treated")
	ErrMedicamentRequired    = errors.New("medicament name is required")
	ErrNoValidPropositions   = errors.New("at least one valid proposition is required")
	ErrInvalidStatus         = errors.New("invalid demande status")
)

type DemandeUsecase interface {
	Create(ctx context.Context, req *dto.CreateDemandeRequest) (*dto.DemandeResponse, error)
	List(ctx context.Context, req *dto.ListDemandesRequest) (*dto.DemandeListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DemandeResponse, error)
	Stats(ctx context.Context) (*entity.DemandeStats, error)
	Pickup(ctx context.Context, id uuid.UUID) (*dto.DemandeResponse, error)
	Complete(ctx context.Context, id uuid.UUID, req *dto.CompleteDemandeRequest) (*dto.CompleteDemandeResponse, error)
}

type demandeUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	demandeRepo     repository.DemandeRepository
	propositionRepo repository.PropositionRepository
	auditService    service.AuditService
	publisher       realtime.Publisher
	metrics         *metrics.Metrics
}

func NewDemandeUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	demandeRepo repository.DemandeRepository,
	propositionRepo repository.PropositionRepository,
	auditService service.AuditService,
	publisher realtime.Publisher,
	m *metrics.Metrics,
) DemandeUsecase {
	return &demandeUsecase{
		db:              db,
		log:             log,
		demandeRepo:     demandeRepo,
		propositionRepo: propositionRepo,
		auditService:    auditService,
		publisher:       publisher,
		metrics:         m,
	}
}

// Create records a new pending demande for the signed-in client.
func (u *demandeUsecase) Create(ctx context.Context, req *dto.CreateDemandeRequest) (*dto.DemandeResponse, error) {
	clientID, _, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	nom := strings.TrimSpace(req.MedicamentNom)
	if nom == "" {
		return nil, ErrMedicamentRequired
	}

	demande := &entity.Demande{
		ClientID:      clientID,
		MedicamentNom: nom,
		Description:   optionalText(req.Description),
		Status:        entity.DemandeStatusEnAttente,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.demandeRepo.Create(tx, demande); err != nil {
		u.log.Warnf("Failed to create demande: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &clientID, entity.AuditActionDemandeCreate, "demande", demande.ID.String(), demandeRow(demande)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.metrics.Transition(string(entity.DemandeStatusEnAttente), "ok")
	publishChange(ctx, u.log, u.publisher, realtime.TableDemandes, realtime.EventInsert, demandeRow(demande))

	return converter.DemandeToResponse(demande), nil
}

// List returns the demandes visible to the actor: clients see their own,
// agents see everyone's.
func (u *demandeUsecase) List(ctx context.Context, req *dto.ListDemandesRequest) (*dto.DemandeListResponse, error) {
	userID, role, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	filter := entity.DemandeFilter{Limit: req.Limit}
	if req.Status != "" {
		filter.Status = entity.DemandeStatus(req.Status)
		if !filter.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
	}
	if role == entity.RoleClient {
		filter.ClientID = &userID
	}

	demandes, err := u.demandeRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find demandes: %+v", err)
		return nil, err
	}

	return &dto.DemandeListResponse{
		Demandes: converter.DemandesToResponses(demandes),
		Stats:    entity.ComputeDemandeStats(demandes),
		Total:    len(demandes),
	}, nil
}

func (u *demandeUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.DemandeResponse, error) {
	userID, role, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	demande, err := u.demandeRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find demande %s: %+v", id, err)
		return nil, err
	}
	// clients never learn about other clients' demandes
	if demande == nil || (role == entity.RoleClient && demande.ClientID != userID) {
		return nil, ErrDemandeNotFound
	}

	return converter.DemandeToResponse(demande), nil
}

// Stats counts the actor's visible demandes per status.
func (u *demandeUsecase) Stats(ctx context.Context) (*entity.DemandeStats, error) {
	userID, role, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var clientID *uuid.UUID
	if role == entity.RoleClient {
		clientID = &userID
	}

	stats, err := u.demandeRepo.CountByStatus(u.db.WithContext(ctx), clientID)
	if err != nil {
		u.log.Warnf("Failed to count demandes: %+v", err)
		return nil, err
	}
	return &stats, nil
}

// Pickup claims a pending demande for the signed-in agent.
//
// The status change is a conditional write, so of two agents racing on the
// same demande exactly one wins; the other gets ErrDemandeAlreadyClaimed.
// Picking up a demande the agent already holds succeeds without changes.
func (u *demandeUsecase) Pickup(ctx context.Context, id uuid.UUID) (*dto.DemandeResponse, error) {
	agentID, _, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.demandeRepo.MarkInProgress(tx, id, agentID)
	if err != nil {
		u.log.Warnf("Failed to pick up demande %s: %+v", id, err)
		u.metrics.Transition(string(entity.DemandeStatusEnCours), "error")
		return nil, err
	}

	if affected == 0 {
		tx.Rollback()
		demande, err := u.demandeRepo.FindByID(u.db.WithContext(ctx), id)
		if err != nil {
			u.log.Warnf("Failed to find demande %s: %+v", id, err)
			return nil, err
		}
		if demande == nil {
			return nil, ErrDemandeNotFound
		}
		if demande.IsInProgress() && demande.AgentID != nil && *demande.AgentID == agentID {
			return converter.DemandeToResponse(demande), nil
		}
		u.metrics.Transition(string(entity.DemandeStatusEnCours), "conflict")
		if demande.IsTreated() {
			return nil, ErrDemandeAlreadyTreated
		}
		return nil, ErrDemandeAlreadyClaimed
	}

	demande, err := u.demandeRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to reload demande %s: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &agentID, entity.AuditActionDemandePickup, "demande", id.String(),
		entity.JSON{"status": entity.DemandeStatusEnAttente},
		entity.JSON{"status": entity.DemandeStatusEnCours, "agent_id": agentID.String()},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.metrics.Transition(string(entity.DemandeStatusEnCours), "ok")
	publishChange(ctx, u.log, u.publisher, realtime.TableDemandes, realtime.EventUpdate, demandeRow(demande))

	return converter.DemandeToResponse(demande), nil
}

// Complete records the agent's offers and marks the demande treated.
//
// Invalid candidates are dropped first; with none left nothing is written.
// The offer insert and the status change share one transaction.
func (u *demandeUsecase) Complete(ctx context.Context, id uuid.UUID, req *dto.CompleteDemandeRequest) (*dto.CompleteDemandeResponse, error) {
	agentID, _, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	propositions, dropped := ValidPropositions(id, req.Propositions)
	if len(propositions) == 0 {
		return nil, ErrNoValidPropositions
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.demandeRepo.MarkTreated(tx, id, agentID)
	if err != nil {
		u.log.Warnf("Failed to mark demande %s treated: %+v", id, err)
		u.metrics.Transition(string(entity.DemandeStatusTraite), "error")
		return nil, err
	}
	if affected == 0 {
		tx.Rollback()
		existing, err := u.demandeRepo.FindByID(u.db.WithContext(ctx), id)
		if err != nil {
			u.log.Warnf("Failed to find demande %s: %+v", id, err)
			return nil, err
		}
		if existing == nil {
			return nil, ErrDemandeNotFound
		}
		u.metrics.Transition(string(entity.DemandeStatusTraite), "conflict")
		return nil, ErrDemandeAlreadyTreated
	}

	if err := u.propositionRepo.CreateBatch(tx, propositions); err != nil {
		u.log.Warnf("Failed to create propositions for demande %s: %+v", id, err)
		u.metrics.Transition(string(entity.DemandeStatusTraite), "error")
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &agentID, entity.AuditActionDemandeComplete, "demande", id.String(),
		nil,
		entity.JSON{"status": entity.DemandeStatusTraite, "propositions": len(propositions), "dropped": dropped},
	); err != nil {
		return nil, err
	}

	demande, err := u.demandeRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to reload demande %s: %+v", id, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.metrics.Transition(string(entity.DemandeStatusTraite), "ok")
	for i := range propositions {
		publishChange(ctx, u.log, u.publisher, realtime.TablePropositions, realtime.EventInsert, &propositions[i])
	}
	publishChange(ctx, u.log, u.publisher, realtime.TableDemandes, realtime.EventUpdate, demandeRow(demande))

	return &dto.CompleteDemandeResponse{
		Demande:  converter.DemandeToResponse(demande),
		Inserted: len(propositions),
		Dropped:  dropped,
	}, nil
}

// demandeRow is the demande without its preloaded relations, as stored in the table.
func demandeRow(d *entity.Demande) *entity.Demande {
	row := *d
	row.Client = nil
	row.Propositions = nil
	return &row
}
