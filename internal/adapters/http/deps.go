package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/hanamagouda9611/map-poi-app/internal/core/usecases"
)

// Pinger is satisfied by the database and cache adapters.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	POIs  *usecases.POIService
	DB    Pinger
	Cache Pinger // nil when caching is disabled
	NATS  *nats.Conn
}
