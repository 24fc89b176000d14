package realtime

import (
	"fmt"
	"time"

	"pharmalink/internal/domain/entity"
)

// EventType is the kind of row change carried by an Event.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
	// EventAll matches every event type in a Filter.
	EventAll EventType = "*"
)

// Event is one committed row change.
type Event struct {
	Table           string      `json:"table"`
	Type            EventType   `json:"type"`
	Record          entity.JSON `json:"record,omitempty"`
	OldRecord       entity.JSON `json:"old_record,omitempty"`
	CommitTimestamp time.Time   `json:"commit_timestamp"`
}

// NewEvent builds an event whose record is the JSON form of row.
func NewEvent(table string, eventType EventType, row interface{}) (Event, error) {
	record, err := entity.ToJSON(row)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s record: %w", table, err)
	}
	return Event{
		Table:           table,
		Type:            eventType,
		Record:          record,
		CommitTimestamp: time.Now().UTC(),
	}, nil
}

// Filter selects events by table, type and an optional equality on one column.
type Filter struct {
	Table  string
	Type   EventType
	Column string
	Value  string
}

// Matches reports whether e passes the filter. Row filters read OldRecord for deletes.
func (f Filter) Matches(e Event) bool {
	if f.Table != "" && f.Table != e.Table {
		return false
	}
	if f.Type != "" && f.Type != EventAll && f.Type != e.Type {
		return false
	}
	if f.Column == "" {
		return true
	}
	record := e.Record
	if e.Type == EventDelete && record == nil {
		record = e.OldRecord
	}
	v, ok := record[f.Column]
	if !ok || v == nil {
		return false
	}
	return fmt.Sprint(v) == f.Value
}

// Tables that emit change events.
const (
	TableDemandes        = "demandes"
	TablePropositions    = "propositions"
	TablePharmaciesGarde = "pharmacies_garde"
)
