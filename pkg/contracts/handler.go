package contracts

import (
	"context"

	"github.com/julienschmidt/httprouter"
)

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// ShutdownFunc releases a resource once the HTTP server has stopped.
type ShutdownFunc func(ctx context.Context) error
