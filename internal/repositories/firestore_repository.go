package repositories

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"illustraBack/internal/models"
)

// FirestoreRepository talks to Cloud Firestore. Documents missing the
// OrderBy attribute are left out of ordered listings, as Firestore does.
type FirestoreRepository struct {
	Client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{Client: client}
}

func (r *FirestoreRepository) List(ctx context.Context, collection string, opts ListOptions) ([]models.Record, error) {
	q := r.Client.Collection(collection).Query
	if opts.OrderBy != "" {
		q = q.OrderBy(opts.OrderBy, firestore.Asc)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	recs := []models.Record{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		recs = append(recs, withID(snap.Ref.ID, snap.Data()))
	}
	return recs, nil
}

func (r *FirestoreRepository) Get(ctx context.Context, collection, id string) (models.Record, error) {
	snap, err := r.Client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return withID(snap.Ref.ID, snap.Data()), nil
}

func (r *FirestoreRepository) Create(ctx context.Context, collection string, data map[string]any) (string, error) {
	ref, _, err := r.Client.Collection(collection).Add(ctx, models.Record(data).Data())
	if err != nil {
		return "", fmt.Errorf("create in %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (r *FirestoreRepository) Update(ctx context.Context, collection, id string, data map[string]any) error {
	fields := models.Record(data).Data()
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		// FieldPath keeps keys containing dots intact.
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: fields[k]})
	}

	if _, err := r.Client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return models.ErrRecordNotFound
		}
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (r *FirestoreRepository) Delete(ctx context.Context, collection, id string) error {
	if _, err := r.Client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}
