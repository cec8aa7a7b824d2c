package reminder

import "context"

// Notifier delivers a single reminder message to its destination. Every timer
// calls Send independently and concurrently, so implementations must either be
// safe for concurrent use or serialize deliveries internally.
//
// The scheduler treats all failure reasons identically: any non-nil error
// means "retry later".
type Notifier interface {
	Send(ctx context.Context, message string) error
}
