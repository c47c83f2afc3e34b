package domain

// PinStore persists pinned title names across restarts.
// Pins are global: they are not scoped to a console target.
type PinStore interface {
	// AddPin appends name to the pin set; pinning twice is a no-op
	AddPin(name string) error

	// RemovePin drops name from the pin set; removing a missing pin is a no-op
	RemovePin(name string) error

	// ListPins returns pins in the order they were added
	ListPins() ([]string, error)
}

// CatalogCache keeps the last successful catalog per target so a stale list
// can be shown before the first fetch completes.
type CatalogCache interface {
	GetCatalog(target ConsoleTarget) ([]Title, bool)
	SaveCatalog(target ConsoleTarget, titles []Title) error
}
