package shared

import "context"

// Notifier broadcasts table change notifications so console clients
// can refresh their views. The payload is the table name; subscribers
// re-query rather than patching state from the message.
type Notifier interface {
	Notify(ctx context.Context, table string) error
	Subscribe(ctx context.Context, table string) (<-chan string, func(), error)
}
