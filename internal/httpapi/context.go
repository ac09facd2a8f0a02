package httpapi

import (
	"context"
	"net/http"
)

// serverBaseCtx is canceled on shutdown. Defaults to Background.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level context that bounds every session
// operation started by a handler. nil restores Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// opContext derives the context for a load, embed or search call from the
// request, so request-scoped values (request id) survive, and additionally
// cancels it when the server base context is done. Callers must call the
// returned cancel.
func opContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(r.Context())
	stop := context.AfterFunc(serverBaseCtx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
