// Package repository handles all interactions with the document store.
//
// DocumentRepository is the five-primitive contract the gateway needs from
// a store: create with a generated identifier and a server timestamp,
// read-all ordered by one field, shallow merge, delete, and a liveness
// ping. Firestore, PostgreSQL (JSONB), Redis and an in-process map each
// implement it; the configured driver picks one at startup.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/platform-api/internal/model"
)

var (
	// ErrNotFound is returned by Update when the document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrEmptyUpdate is returned by Update when no field was supplied.
	ErrEmptyUpdate = errors.New("at least one field must be updated")
)

// DocumentRepository is implemented by every store backend.
//
// Implementations must be safe for concurrent use: one instance serves
// every request for the lifetime of the process.
type DocumentRepository interface {
	// List returns every document of c that carries c.SortField, ordered by it.
	List(ctx context.Context, c model.Collection) ([]model.Document, error)

	// Create persists fields as a new document, stamping c.SortField with
	// the store's clock, and returns the stored document.
	Create(ctx context.Context, c model.Collection, fields model.Fields) (model.Document, error)

	// Update merges fields into the document's top level.
	Update(ctx context.Context, c model.Collection, id string, fields model.Fields) error

	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, c model.Collection, id string) error

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

// DocumentError ties a repository failure to the document it concerns.
type DocumentError struct {
	Collection string
	ID         string
	Err        error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s/%s: %v", e.Collection, e.ID, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

func documentError(c model.Collection, id string, err error) error {
	return &DocumentError{Collection: c.Name, ID: id, Err: err}
}
