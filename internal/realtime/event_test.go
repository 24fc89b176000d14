package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterMatchesDeleteOnOldRecord(t *testing.T) {
	f := Filter{Table: "demandes", Type: EventAll, Column: "client_id", Value: "c1"}
	e := Event{Table: "demandes", Type: EventDelete, OldRecord: map[string]interface{}{"client_id": "c1"}}
	assert.True(t, f.Matches(e))

	e.OldRecord = nil
	assert.False(t, f.Matches(e))
}

func TestNewEventEncodesUUIDAsString(t *testing.T) {
	id := uuid.New()
	e, err := NewEvent("demandes", EventInsert, struct {
		ClientID uuid.UUID `json:"client_id"`
	}{ClientID: id})
	require.NoError(t, err)

	f := Filter{Table: "demandes", Column: "client_id", Value: id.String()}
	assert.True(t, f.Matches(e))
	assert.False(t, e.CommitTimestamp.IsZero())
}

func TestEventWireRoundTrip(t *testing.T) {
	in := Event{Table: "propositions", Type: EventInsert, Record: map[string]interface{}{"pharmacie_nom": "Pharmacie Centrale"}}
	payload, err := EncodeEvent(in)
	require.NoError(t, err)

	out, err := DecodeEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, in.Table, out.Table)
	assert.Equal(t, "Pharmacie Centrale", out.Record["pharmacie_nom"])

	_, err = DecodeEvent([]byte(`{"record":{}}`))
	assert.Error(t, err)
}
