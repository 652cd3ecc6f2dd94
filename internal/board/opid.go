package board

import (
	"context"

	"github.com/google/uuid"
)

// OpIDGenerator produces the ids that tag each mutating operation in logs
// and compensation journals.
type OpIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 operation ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

type opIDKey struct{}

// ContextWithOpID attaches an operation id chosen by the caller, such as an
// HTTP request id. Mutations run under ctx log and journal with that id
// instead of generating one.
func ContextWithOpID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, opIDKey{}, id)
}

// OpIDFromContext returns the id set by ContextWithOpID.
func OpIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(opIDKey{}).(string)
	return id, ok && id != ""
}

func (c *Controller) opID(ctx context.Context) string {
	if id, ok := OpIDFromContext(ctx); ok {
		return id
	}
	return c.opIDs.Generate()
}
