package notifier

import (
	"context"

	log "github.com/sirupsen/logrus"

	"PriceBoard/internal/model"
)

// Sink receives every published selection.
type Sink interface {
	Name() string
	Publish(sel model.Selection) error
}

// Dispatch forwards selections from ch to every sink until ctx is done or ch
// is closed. Sink failures are logged and do not stop delivery to the others.
func Dispatch(ctx context.Context, ch <-chan model.Selection, sinks ...Sink) {
	for {
		select {
		case <-ctx.Done():
			log.Debug("dispatcher stopped")
			return
		case sel, ok := <-ch:
			if !ok {
				log.Debug("selection channel closed, dispatcher stopped")
				return
			}
			for _, s := range sinks {
				if err := s.Publish(sel); err != nil {
					log.WithError(err).WithFields(log.Fields{
						"sink":     s.Name(),
						"event_id": sel.EventID,
					}).Error("publish selection")
				}
			}
		}
	}
}
