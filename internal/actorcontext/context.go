package actorcontext

import "context"

type contextKey struct{}

// WithActor attaches the acting user identity to the context.
func WithActor(ctx context.Context, actor string) context.Context {
	if actor == "" {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, actor)
}

// ActorFromContext returns the acting user identity, if any.
func ActorFromContext(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(contextKey{}).(string)
	if !ok || actor == "" {
		return "", false
	}
	return actor, true
}
