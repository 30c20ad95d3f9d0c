package repository

import (
	"context"

	"stocktrack/internal/inventory/domain/model"
)

// ItemStore is the inventory store adapter: keyed document reads and
// writes against the caller's users/{uid}/inventory/{name} collection.
type ItemStore interface {
	// ListAll returns every document in the owner's collection in
	// retrieval order. Transport failures surface as
	// errors.ErrStorageUnavailable.
	ListAll(ctx context.Context, ownerID string) ([]model.InventoryItem, error)

	// Get returns the document keyed by name, or (nil, nil) when it
	// does not exist.
	Get(ctx context.Context, ownerID, name string) (*model.InventoryItem, error)

	// Upsert writes fields to the document keyed by name. With merge
	// set, unspecified existing fields are preserved; without it the
	// document is replaced entirely (fresh create).
	Upsert(ctx context.Context, ownerID, name string, fields model.ItemFields, merge bool) error

	// Delete removes the document. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, ownerID, name string) error
}

// ChangeStreamPublisher pushes inventory change events to an external
// stream for other consumers. Publishing is best effort.
type ChangeStreamPublisher interface {
	PublishChange(ctx context.Context, ownerID, op, name string) error
}
