package repositories

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"illustraBack/internal/models"
)

// SQLRepository stores every collection in one JSON documents table on
// PostgreSQL or MySQL.
type SQLRepository struct {
	DB      *sql.DB
	Dialect Dialect

	now   func() time.Time
	newID func() string
}

func NewSQLRepository(db *sql.DB, dialect Dialect) *SQLRepository {
	return &SQLRepository{
		DB:      db,
		Dialect: dialect,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// EnsureSchema creates the documents table when it does not exist.
func (r *SQLRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, r.Dialect.createTable); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

func (r *SQLRepository) List(ctx context.Context, collection string, opts ListOptions) ([]models.Record, error) {
	query := r.Dialect.rebind(`
		SELECT id, data
		FROM documents
		WHERE collection = ?
		ORDER BY created_at, id
	`)
	rows, err := r.DB.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	recs := []models.Record{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		data, err := decodeDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("list %s: document %s: %w", collection, id, err)
		}
		recs = append(recs, withID(id, data))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	if opts.OrderBy != "" {
		sortByAttribute(recs, opts.OrderBy)
	}
	return recs, nil
}

func (r *SQLRepository) Get(ctx context.Context, collection, id string) (models.Record, error) {
	query := r.Dialect.rebind(`SELECT data FROM documents WHERE collection = ? AND id = ?`)

	var raw []byte
	err := r.DB.QueryRowContext(ctx, query, collection, id).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	data, err := decodeDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return withID(id, data), nil
}

func (r *SQLRepository) Create(ctx context.Context, collection string, data map[string]any) (string, error) {
	raw, err := json.Marshal(models.Record(data).Data())
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	query := r.Dialect.rebind(`
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`)

	// A generated id colliding is not expected; one retry covers it.
	for attempt := 0; ; attempt++ {
		id := r.newID()
		now := r.now()
		_, err = r.DB.ExecContext(ctx, query, collection, id, raw, now, now)
		if err == nil {
			return id, nil
		}
		if attempt == 0 && isDuplicateKeyError(err) {
			continue
		}
		return "", fmt.Errorf("create in %s: %w", collection, err)
	}
}

func (r *SQLRepository) Update(ctx context.Context, collection, id string, data map[string]any) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	var raw []byte
	err = tx.QueryRowContext(ctx,
		r.Dialect.rebind(`SELECT data FROM documents WHERE collection = ? AND id = ? FOR UPDATE`),
		collection, id,
	).Scan(&raw)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return models.ErrRecordNotFound
		}
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	for k, v := range models.Record(data).Data() {
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("encode document: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		r.Dialect.rebind(`UPDATE documents SET data = ?, updated_at = ? WHERE collection = ? AND id = ?`),
		merged, r.now(), collection, id,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	return tx.Commit()
}

func (r *SQLRepository) Delete(ctx context.Context, collection, id string) error {
	query := r.Dialect.rebind(`DELETE FROM documents WHERE collection = ? AND id = ?`)
	if _, err := r.DB.ExecContext(ctx, query, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// decodeDocument parses a stored JSON document, keeping integers as int64
// so values read back match what Firestore would return.
func decodeDocument(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return normalizeNumbers(doc).(map[string]any), nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	case json.Number:
		if n, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return n
		}
		f, _ := t.Float64()
		return f
	default:
		return v
	}
}
