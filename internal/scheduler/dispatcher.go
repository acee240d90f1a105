package scheduler

import (
	"context"

	"sorun_takip_backend/internal/events"
	"sorun_takip_backend/platform/logger"
)

// Dispatcher listens for domain events in the API process and queues the
// matching email tasks. Mail is delivered by the worker process, so a slow
// or failing SMTP server never slows down request handling.
type Dispatcher struct {
	client *Client
	log    *logger.Logger
}

func NewDispatcher(client *Client, log *logger.Logger) *Dispatcher {
	return &Dispatcher{client: client, log: log}
}

// RegisterHandlers subscribes the dispatcher to the events that produce mail.
func (d *Dispatcher) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.UserRegistered{}.EventName(), d)
	bus.Subscribe(events.ReportStatusChanged{}.EventName(), d)

	d.log.Info("scheduler dispatcher registered event handlers")
}

func (d *Dispatcher) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.UserRegistered:
		return d.client.EnqueueWelcomeEmail(ctx, WelcomeEmailPayload{
			ToEmail:   e.Email,
			FirstName: firstNameOf(e.FullName),
		})
	case events.ReportStatusChanged:
		if e.ReporterEmail == "" {
			return nil
		}
		return d.client.EnqueueStatusChangedEmail(ctx, StatusChangedEmailPayload{
			ToEmail:        e.ReporterEmail,
			ReportTitle:    e.Title,
			NewStatus:      e.ToStatus,
			ResolutionNote: e.ResolutionNote,
		})
	default:
		return nil
	}
}

func firstNameOf(fullName string) string {
	for i, r := range fullName {
		if r == ' ' {
			return fullName[:i]
		}
	}
	return fullName
}

var _ events.Handler = (*Dispatcher)(nil)
