package domain

import "context"

// CatalogProvider returns the titles available on one console.
// Implementations decode and validate their payload; a malformed payload
// is reported as ErrInvalidPayload, an unreachable source as ErrUnavailable.
type CatalogProvider interface {
	FetchCatalog(ctx context.Context) ([]Title, error)
}

// CatalogSource resolves the provider bound to a console target
type CatalogSource interface {
	Provider(target ConsoleTarget) (CatalogProvider, error)
}

// PresenceSink is the outbound presence connection
type PresenceSink interface {
	// Connect logs in for the target and shows the idle presence
	Connect(ctx context.Context, target ConsoleTarget) error

	// Disconnect closes the connection
	Disconnect() error

	// HasError reports true when the sink has detected a problem
	HasError(ctx context.Context) bool

	// Reconnect retries the connection for the current target, true means connected
	Reconnect(ctx context.Context) bool

	// SwitchTarget moves the connection to another target, true means ready
	SwitchTarget(ctx context.Context, target ConsoleTarget) bool

	// Publish sends a presence update, true means accepted
	Publish(ctx context.Context, p Presence) bool
}
