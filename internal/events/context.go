package events

import "context"

type ctxKey int

const (
	actorKey ctxKey = iota
	sourceKey
)

// SystemActor is used when no caller is attached to the context.
var SystemActor = Actor{UserID: "system", Name: "system"}

// WithActor attaches the caller to ctx.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the caller attached to ctx, or SystemActor.
func ActorFromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(actorKey).(Actor); ok {
		return a
	}
	return SystemActor
}

// WithSource tags ticket updates made under ctx.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

// SourceFromContext returns the update source, SourceSingle by default.
func SourceFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey).(string); ok && s != "" {
		return s
	}
	return SourceSingle
}
