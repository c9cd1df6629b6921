package admin

import (
	"context"
)

var actorCtxKey = &contextKey{"actor"}

type contextKey struct {
	name string
}

// WithActor sets the acting admin in the given context. The HTTP layer
// (or whatever transport the host wires up) is expected to do this once
// per request, after authenticating the caller.
func WithActor(ctx context.Context, actor ActorRef) context.Context {
	return context.WithValue(ctx, actorCtxKey, actor)
}

// ActorFromContext finds the acting admin in the context.
func ActorFromContext(ctx context.Context) (ActorRef, bool) {
	raw, ok := ctx.Value(actorCtxKey).(ActorRef)
	return raw, ok
}
