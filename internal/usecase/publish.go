package usecase

import (
	"context"

	"pharmalink/internal/realtime"

	"github.com/sirupsen/logrus"
)

// publishChange emits a committed row change. Failures are logged only: the
// write already succeeded and subscribers resync on their next event.
func publishChange(ctx context.Context, log *logrus.Logger, pub realtime.Publisher, table string, eventType realtime.EventType, row interface{}) {
	if pub == nil {
		return
	}
	event, err := realtime.NewEvent(table, eventType, row)
	if err != nil {
		log.Warnf("Failed to encode %s change on %s: %+v", eventType, table, err)
		return
	}
	if eventType == realtime.EventDelete {
		event.OldRecord, event.Record = event.Record, nil
	}
	if err := pub.Publish(ctx, event); err != nil {
		log.Warnf("Failed to publish %s change on %s: %+v", eventType, table, err)
	}
}
