package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/deppfellow/platform-api/internal/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreRepository maps each collection onto the Firestore collection
// of the same name.
type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

func (r *FirestoreRepository) List(ctx context.Context, c model.Collection) ([]model.Document, error) {
	direction := firestore.Asc
	if c.Order == model.Descending {
		direction = firestore.Desc
	}

	snapshots, err := r.client.Collection(c.Name).OrderBy(c.SortField, direction).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.Name, err)
	}

	docs := make([]model.Document, 0, len(snapshots))
	for _, snapshot := range snapshots {
		docs = append(docs, model.Document{ID: snapshot.Ref.ID, Fields: model.Fields(snapshot.Data())})
	}

	return docs, nil
}

func (r *FirestoreRepository) Create(ctx context.Context, c model.Collection, fields model.Fields) (model.Document, error) {
	ref := r.client.Collection(c.Name).NewDoc()

	data := map[string]any(fields.Clone())
	data[c.SortField] = firestore.ServerTimestamp

	result, err := ref.Set(ctx, data)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to create %s document: %w", c.Name, err)
	}

	// The server timestamp resolves to the commit time of the write.
	stored := fields.Clone()
	stored[c.SortField] = result.UpdateTime.UTC()

	return model.Document{ID: ref.ID, Fields: stored}, nil
}

func (r *FirestoreRepository) Update(ctx context.Context, c model.Collection, id string, fields model.Fields) error {
	if len(fields) == 0 {
		return documentError(c, id, ErrEmptyUpdate)
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	// FieldPath keeps keys containing dots as single top-level fields.
	updates := make([]firestore.Update, 0, len(keys))
	for _, key := range keys {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{key}, Value: fields[key]})
	}

	ref := r.client.Collection(c.Name).Doc(id)
	if ref == nil {
		return documentError(c, id, ErrNotFound)
	}

	_, err := ref.Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return documentError(c, id, ErrNotFound)
	}
	if err != nil {
		return documentError(c, id, err)
	}

	return nil
}

func (r *FirestoreRepository) Delete(ctx context.Context, c model.Collection, id string) error {
	ref := r.client.Collection(c.Name).Doc(id)
	if ref == nil {
		// Not a valid document id, so nothing can be stored under it.
		return nil
	}

	if _, err := ref.Delete(ctx); err != nil {
		return documentError(c, id, err)
	}
	return nil
}

// Ping reads at most one document; an empty collection still proves the
// backend answered.
func (r *FirestoreRepository) Ping(ctx context.Context) error {
	iter := r.client.Collection(model.Courses.Name).Limit(1).Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil
	}
	return err
}
