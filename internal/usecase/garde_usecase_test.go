package usecase

import (
	"testing"
	"time"

	"pharmalink/internal/delivery/dto"
	"pharmalink/internal/domain/entity"
	"pharmalink/internal/realtime"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) pharmacyIDs(t *testing.T, n int) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = f.newPharmacy(t, "Pharmacie "+string(rune('A'+i)), "Cocody", true)
	}
	return ids
}

func (f *fixture) gardeRows(t *testing.T) []entity.PharmacyOnDuty {
	t.Helper()
	var rows []entity.PharmacyOnDuty
	require.NoError(t, f.db.Order("nom ASC").Find(&rows).Error)
	return rows
}

func TestDefineCurrentWeek(t *testing.T) {
	f := newFixture(t)
	agentID := f.newProfile(t, entity.RoleAgent)
	ids := f.pharmacyIDs(t, 3)

	resp, err := f.gardes.Define(actorCtx(agentID, entity.RoleAgent), &dto.DefineWeekRequest{PharmacyIDs: ids})
	require.NoError(t, err)
	assert.Equal(t, "current", resp.Week)
	assert.Equal(t, "2026-10-12", resp.DateDebut)
	assert.Equal(t, "2026-10-18", resp.DateFin)
	assert.Equal(t, 3, resp.Total)

	rows := f.gardeRows(t)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, "Cocody", r.Quartier)
		assert.Empty(t, r.Telephone)
		assert.Empty(t, r.Adresse)
		assert.Equal(t, "2026-10-12", r.DateDebut.Format("2006-01-02"))
		assert.Equal(t, "2026-10-18", r.DateFin.Format("2006-01-02"))
	}
}

func TestDefineExistingWeekNeedsReplace(t *testing.T) {
	f := newFixture(t)
	agentID := f.newProfile(t, entity.RoleAgent)
	ctx := actorCtx(agentID, entity.RoleAgent)

	_, err := f.gardes.Define(ctx, &dto.DefineWeekRequest{PharmacyIDs: f.pharmacyIDs(t, 3)})
	require.NoError(t, err)

	five := make([]uuid.UUID, 5)
	for i := range five {
		five[i] = f.newPharmacy(t, "Nouvelle "+string(rune('A'+i)), "Yopougon", true)
	}

	_, err = f.gardes.Define(ctx, &dto.DefineWeekRequest{PharmacyIDs: five})
	assert.ErrorIs(t, err, ErrWeekAlreadyDefined)
	assert.Len(t, f.gardeRows(t), 3)

	sub := f.broker.Subscribe(realtime.Filter{Table: realtime.TablePharmaciesGarde, Type: realtime.EventAll})
	defer sub.Unsubscribe()

	resp, err := f.gardes.Define(ctx, &dto.DefineWeekRequest{PharmacyIDs: five, Replace: true})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Total)

	rows := f.gardeRows(t)
	require.Len(t, rows, 5)
	for _, r := range rows {
		assert.Equal(t, "Yopougon", r.Quartier)
	}

	deletes, inserts := 0, 0
	for i := 0; i < 8; i++ {
		e := <-sub.Events()
		switch e.Type {
		case realtime.EventDelete:
			deletes++
			assert.Nil(t, e.Record)
			assert.NotNil(t, e.OldRecord)
		case realtime.EventInsert:
			inserts++
		}
	}
	assert.Equal(t, 3, deletes)
	assert.Equal(t, 5, inserts)

	logs, err := f.auditLogs.GetMyAuditLogs(ctx)
	require.NoError(t, err)
	actions := make([]string, 0, logs.Total)
	for _, l := range logs.Logs {
		actions = append(actions, l.Action)
	}
	assert.ElementsMatch(t, []string{entity.AuditActionGardeDefine, entity.AuditActionGardeReplace}, actions)
}

func TestDefineNextWeekIsIndependent(t *testing.T) {
	f := newFixture(t)
	ctx := actorCtx(f.newProfile(t, entity.RoleAgent), entity.RoleAgent)

	_, err := f.gardes.Define(ctx, &dto.DefineWeekRequest{PharmacyIDs: f.pharmacyIDs(t, 2)})
	require.NoError(t, err)

	next, err := f.gardes.Define(ctx, &dto.DefineWeekRequest{PharmacyIDs: f.pharmacyIDs(t, 1), Week: "next"})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", next.DateDebut)
	assert.Equal(t, "2026-10-25", next.DateFin)

	current, err := f.gardes.ListWeek(ctx, "current")
	require.NoError(t, err)
	assert.Equal(t, 2, current.Total)

	listed, err := f.gardes.ListWeek(ctx, "next")
	require.NoError(t, err)
	assert.Equal(t, 1, listed.Total)

	_, err = f.gardes.ListWeek(ctx, "last")
	assert.ErrorIs(t, err, ErrInvalidWeek)
}

func TestDefineValidation(t *testing.T) {
	f := newFixture(t)
	ctx := actorCtx(f.newProfile(t, entity.RoleAgent), entity.RoleAgent)

	_, err := f.gardes.Define(ctx, &dto.DefineWeekRequest{})
	assert.ErrorIs(t, err, ErrNoPharmaciesSelected)

	_, err = f.gardes.Define(ctx, &dto.DefineWeekRequest{PharmacyIDs: []uuid.UUID{uuid.New()}})
	assert.ErrorIs(t, err, ErrUnknownPharmacies)

	inactive := f.newPharmacy(t, "Pharmacie Fermée", "Abobo", false)
	_, err = f.gardes.Define(ctx, &dto.DefineWeekRequest{PharmacyIDs: []uuid.UUID{inactive}})
	assert.ErrorIs(t, err, ErrUnknownPharmacies)

	// duplicates collapse to one row
	id := f.newPharmacy(t, "Pharmacie Unique", "Adjamé", true)
	resp, err := f.gardes.Define(ctx, &dto.DefineWeekRequest{PharmacyIDs: []uuid.UUID{id, id}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}

func TestDeleteCurrentWeek(t *testing.T) {
	f := newFixture(t)
	ctx := actorCtx(f.newProfile(t, entity.RoleAgent), entity.RoleAgent)

	_, err := f.gardes.DeleteCurrentWeek(ctx)
	assert.ErrorIs(t, err, ErrNoGardesForWeek)

	_, err = f.gardes.Define(ctx, &dto.DefineWeekRequest{PharmacyIDs: f.pharmacyIDs(t, 3)})
	require.NoError(t, err)
	_, err = f.gardes.Define(ctx, &dto.DefineWeekRequest{PharmacyIDs: f.pharmacyIDs(t, 2), Week: "next"})
	require.NoError(t, err)

	resp, err := f.gardes.DeleteCurrentWeek(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Deleted)

	rows := f.gardeRows(t)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "2026-10-19", r.DateDebut.Format("2006-01-02"))
	}
}

func TestListToday(t *testing.T) {
	f := newFixture(t)
	ctx := actorCtx(f.newProfile(t, entity.RoleClient), entity.RoleClient)

	// a batch spanning only Monday and Tuesday does not cover Wednesday
	require.NoError(t, f.db.Create(&entity.PharmacyOnDuty{
		Nom:       "Pharmacie Passée",
		DateDebut: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
		DateFin:   time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC),
	}).Error)
	require.NoError(t, f.db.Create(&entity.PharmacyOnDuty{
		Nom:       "Pharmacie du Jour",
		DateDebut: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
		DateFin:   time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
	}).Error)

	resp, err := f.gardes.ListToday(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Pharmacie du Jour", resp.Gardes[0].Nom)
	assert.Equal(t, "2026-10-14", resp.DateDebut)
}

func TestListActivePharmacies(t *testing.T) {
	f := newFixture(t)
	f.newPharmacy(t, "Pharmacie B", "Plateau", true)
	f.newPharmacy(t, "Pharmacie A", "Plateau", true)
	f.newPharmacy(t, "Pharmacie Fermée", "Plateau", false)

	resp, err := f.pharmacies.ListActive(actorCtx(f.newProfile(t, entity.RoleAgent), entity.RoleAgent))
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "Pharmacie A", resp.Pharmacies[0].Nom)
}
