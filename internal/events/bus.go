package events

import (
	platformevents "sorun_takip_backend/platform/events"
	"sorun_takip_backend/platform/logger"
)

// InMemoryBus aliases the platform bus so modules only import
// internal/events alongside the typed event definitions.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
