package gate

import "context"

// Policy defines authorization rules for one resource type.
// For list/create, resource may be nil.
type Policy[U any] interface {
	Can(ctx context.Context, subject U, action Action, resource any) bool
}
