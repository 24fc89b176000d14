package usecase

import (
	"context"
	"errors"
	"time"

	"pharmalink/internal/converter"
	"pharmalink/internal/delivery/dto"
	"pharmalink/internal/domain/entity"
	"pharmalink/internal/domain/repository"
	"pharmalink/internal/realtime"
	"pharmalink/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrNoPharmaciesSelected = errors.New("at least one pharmacy must be selected")
	ErrUnknownPharmacies    = errors.New("unknown or inactive pharmacy selected")
	ErrWeekAlreadyDefined   = errors.New("on-duty pharmacies already defined for this week")
	ErrNoGardesForWeek      = errors.New("no on-duty pharmacies defined for the current week")
	ErrInvalidWeek          = errors.New("week must be current or next")
)

type GardeUsecase interface {
	// Define lists the pharmacies as on duty for the current or next week.
	// Existing rows for that week are only replaced when req.Replace is set.
	Define(ctx context.Context, req *dto.DefineWeekRequest) (*dto.WeekGardesResponse, error)
	DeleteCurrentWeek(ctx context.Context) (*dto.DeleteWeekResponse, error)
	ListWeek(ctx context.Context, week string) (*dto.WeekGardesResponse, error)
	ListToday(ctx context.Context) (*dto.WeekGardesResponse, error)
}

type gardeUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	pharmacyRepo repository.PharmacyRepository
	gardeRepo    repository.PharmacyOnDutyRepository
	auditService service.AuditService
	publisher    realtime.Publisher
	location     *time.Location
	now          func() time.Time
}

func NewGardeUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	pharmacyRepo repository.PharmacyRepository,
	gardeRepo repository.PharmacyOnDutyRepository,
	auditService service.AuditService,
	publisher realtime.Publisher,
	location *time.Location,
	now func() time.Time,
) GardeUsecase {
	if location == nil {
		location = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &gardeUsecase{
		db:           db,
		log:          log,
		pharmacyRepo: pharmacyRepo,
		gardeRepo:    gardeRepo,
		auditService: auditService,
		publisher:    publisher,
		location:     location,
		now:          now,
	}
}

func (u *gardeUsecase) today() time.Time {
	return u.now().In(u.location)
}

func parseWeekTarget(week string) (entity.WeekTarget, error) {
	switch entity.WeekTarget(week) {
	case "", entity.WeekCurrent:
		return entity.WeekCurrent, nil
	case entity.WeekNext:
		return entity.WeekNext, nil
	default:
		return "", ErrInvalidWeek
	}
}

func (u *gardeUsecase) Define(ctx context.Context, req *dto.DefineWeekRequest) (*dto.WeekGardesResponse, error) {
	userID, _, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	ids := uniqueIDs(req.PharmacyIDs)
	if len(ids) == 0 {
		return nil, ErrNoPharmaciesSelected
	}

	target, err := parseWeekTarget(req.Week)
	if err != nil {
		return nil, err
	}
	week := entity.ResolveWeek(u.today(), target)
	start, end := week.StartDate(), week.EndDate()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	pharmacies, err := u.pharmacyRepo.FindByIDs(tx, ids)
	if err != nil {
		u.log.Warnf("Failed to find pharmacies: %+v", err)
		return nil, err
	}
	if len(pharmacies) != len(ids) {
		return nil, ErrUnknownPharmacies
	}
	for _, p := range pharmacies {
		if !p.Actif {
			return nil, ErrUnknownPharmacies
		}
	}

	existing, err := u.gardeRepo.FindOverlapping(tx, start, end)
	if err != nil {
		u.log.Warnf("Failed to find on-duty pharmacies for %s: %+v", start.Format("2006-01-02"), err)
		return nil, err
	}
	if len(existing) > 0 && !req.Replace {
		return nil, ErrWeekAlreadyDefined
	}

	if len(existing) > 0 {
		if _, err := u.gardeRepo.DeleteOverlapping(tx, start, end); err != nil {
			u.log.Warnf("Failed to delete on-duty pharmacies for %s: %+v", start.Format("2006-01-02"), err)
			return nil, err
		}
	}

	rows := make([]entity.PharmacyOnDuty, len(pharmacies))
	for i, p := range pharmacies {
		rows[i] = entity.PharmacyOnDuty{
			Nom:       p.Nom,
			Quartier:  p.Quartier,
			DateDebut: start,
			DateFin:   end,
		}
	}
	if err := u.gardeRepo.CreateBatch(tx, rows); err != nil {
		u.log.Warnf("Failed to create on-duty pharmacies: %+v", err)
		return nil, err
	}

	action := entity.AuditActionGardeDefine
	if len(existing) > 0 {
		action = entity.AuditActionGardeReplace
	}
	if err := u.auditService.LogUpdate(ctx, tx, &userID, action, "pharmacies_garde", start.Format("2006-01-02"),
		entity.JSON{"count": len(existing)},
		entity.JSON{"count": len(rows), "date_debut": start.Format("2006-01-02"), "date_fin": end.Format("2006-01-02")},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	for i := range existing {
		publishChange(ctx, u.log, u.publisher, realtime.TablePharmaciesGarde, realtime.EventDelete, &existing[i])
	}
	for i := range rows {
		publishChange(ctx, u.log, u.publisher, realtime.TablePharmaciesGarde, realtime.EventInsert, &rows[i])
	}

	return converter.WeekGardesToResponse(target, week, rows), nil
}

func (u *gardeUsecase) DeleteCurrentWeek(ctx context.Context) (*dto.DeleteWeekResponse, error) {
	userID, _, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	week := entity.ResolveWeek(u.today(), entity.WeekCurrent)
	start, end := week.StartDate(), week.EndDate()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.gardeRepo.FindOverlapping(tx, start, end)
	if err != nil {
		u.log.Warnf("Failed to find on-duty pharmacies for %s: %+v", start.Format("2006-01-02"), err)
		return nil, err
	}
	if len(existing) == 0 {
		return nil, ErrNoGardesForWeek
	}

	deleted, err := u.gardeRepo.DeleteOverlapping(tx, start, end)
	if err != nil {
		u.log.Warnf("Failed to delete on-duty pharmacies for %s: %+v", start.Format("2006-01-02"), err)
		return nil, err
	}

	if err := u.auditService.LogDelete(ctx, tx, &userID, entity.AuditActionGardeDelete, "pharmacies_garde", start.Format("2006-01-02"),
		entity.JSON{"count": deleted},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	for i := range existing {
		publishChange(ctx, u.log, u.publisher, realtime.TablePharmaciesGarde, realtime.EventDelete, &existing[i])
	}

	return &dto.DeleteWeekResponse{Deleted: deleted}, nil
}

func (u *gardeUsecase) ListWeek(ctx context.Context, week string) (*dto.WeekGardesResponse, error) {
	target, err := parseWeekTarget(week)
	if err != nil {
		return nil, err
	}
	rng := entity.ResolveWeek(u.today(), target)

	rows, err := u.gardeRepo.FindOverlapping(u.db.WithContext(ctx), rng.StartDate(), rng.EndDate())
	if err != nil {
		u.log.Warnf("Failed to find on-duty pharmacies: %+v", err)
		return nil, err
	}

	return converter.WeekGardesToResponse(target, rng, rows), nil
}

func (u *gardeUsecase) ListToday(ctx context.Context) (*dto.WeekGardesResponse, error) {
	today := u.today()
	rows, err := u.gardeRepo.FindOnDate(u.db.WithContext(ctx), entity.CalendarDate(today))
	if err != nil {
		u.log.Warnf("Failed to find today's on-duty pharmacies: %+v", err)
		return nil, err
	}

	return converter.WeekGardesToResponse("", entity.WeekRange{Start: today, End: today}, rows), nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
