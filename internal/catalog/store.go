// Package catalog persists synchronized entities in SQLite and implements the
// full-set mutation contract: applying a mutation replaces every entity
// previously written under the mutation's location keys, so resources deleted
// on the platform disappear from the catalog without an explicit delete
// signal.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rashadism/choreosync/models"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed entity catalog.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens the catalog database at path and ensures the schema exists.
func Open(path string, logger *zap.Logger) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_timeout=5000&_foreign_keys=on", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := NewStore(db, logger)
	if err := store.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("catalog database opened", zap.String("path", path))
	return store, nil
}

// NewStore wraps an existing database connection. The caller owns the
// connection's lifecycle and schema.
func NewStore(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies database connectivity, for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// InitSchema creates the catalog tables if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS entities (
		kind        TEXT NOT NULL,
		namespace   TEXT NOT NULL,
		name        TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL,
		owner       TEXT NOT NULL DEFAULT '',
		labels      TEXT NOT NULL DEFAULT '{}',
		annotations TEXT NOT NULL DEFAULT '{}',
		managed_by  TEXT NOT NULL,
		spec        TEXT NOT NULL DEFAULT 'null',
		updated_at  TEXT NOT NULL,
		PRIMARY KEY (kind, namespace, name)
	);
	CREATE INDEX IF NOT EXISTS idx_entities_managed_by ON entities(managed_by);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// ApplyMutation applies a full-set mutation: inside one transaction, every
// entity previously stored under the mutation's location keys is deleted and
// the mutation's entities are inserted in their place. The replacement is
// atomic; readers never observe a partially applied set.
func (s *Store) ApplyMutation(ctx context.Context, mutation models.Mutation) error {
	if mutation.Type != models.MutationTypeFull {
		return fmt.Errorf("%w: unsupported mutation type %q", models.ErrInvalidMutation, mutation.Type)
	}

	locationKeys := make([]string, 0, 1)
	seenKey := make(map[string]bool)
	for _, located := range mutation.Entities {
		if located.LocationKey == "" {
			return fmt.Errorf("%w: entity %s has no location key", models.ErrInvalidMutation, located.Entity.Ref())
		}
		if !seenKey[located.LocationKey] {
			seenKey[located.LocationKey] = true
			locationKeys = append(locationKeys, located.LocationKey)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", models.ErrDatabaseError, err)
	}
	defer tx.Rollback()

	for _, key := range locationKeys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM entities WHERE managed_by = ?`, key); err != nil {
			return fmt.Errorf("%w: failed to clear entities for %q: %v", models.ErrDatabaseError, key, err)
		}
	}

	insertQuery := `
		INSERT OR REPLACE INTO entities (
			kind, namespace, name, title, description, owner,
			labels, annotations, managed_by, spec, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now().UTC().Format(time.RFC3339)

	for _, located := range mutation.Entities {
		entity := located.Entity

		labels, err := json.Marshal(orEmpty(entity.Labels))
		if err != nil {
			return fmt.Errorf("failed to encode labels for %s: %w", entity.Ref(), err)
		}
		annotations, err := json.Marshal(orEmpty(entity.Annotations))
		if err != nil {
			return fmt.Errorf("failed to encode annotations for %s: %w", entity.Ref(), err)
		}
		spec, err := json.Marshal(entity.Spec)
		if err != nil {
			return fmt.Errorf("failed to encode spec for %s: %w", entity.Ref(), err)
		}

		_, err = tx.ExecContext(ctx, insertQuery,
			entity.Kind, entity.Namespace, entity.Name, entity.Title, entity.Description,
			entity.Owner, string(labels), string(annotations), located.LocationKey, string(spec), now,
		)
		if err != nil {
			return fmt.Errorf("%w: failed to insert %s: %v", models.ErrDatabaseError, entity.Ref(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit mutation: %v", models.ErrDatabaseError, err)
	}

	s.logger.Debug("mutation applied",
		zap.Int("entities", len(mutation.Entities)),
		zap.Strings("location_keys", locationKeys),
	)
	return nil
}

// ListEntities returns stored entities, optionally filtered by kind and/or
// namespace, ordered by (kind, namespace, name).
func (s *Store) ListEntities(ctx context.Context, kind, namespace string) ([]models.Entity, error) {
	query := `
		SELECT kind, namespace, name, title, description, owner,
		       labels, annotations, managed_by, spec
		FROM entities
		WHERE (? = '' OR kind = ?) AND (? = '' OR namespace = ?)
		ORDER BY kind, namespace, name
	`

	rows, err := s.db.QueryContext(ctx, query, kind, kind, namespace, namespace)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list entities: %v", models.ErrDatabaseError, err)
	}
	defer rows.Close()

	entities := []models.Entity{}
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate entities: %v", models.ErrDatabaseError, err)
	}
	return entities, nil
}

// GetEntity returns one entity by its (kind, namespace, name) identity.
// Returns models.ErrNotFound when no such entity is stored.
func (s *Store) GetEntity(ctx context.Context, kind, namespace, name string) (models.Entity, error) {
	query := `
		SELECT kind, namespace, name, title, description, owner,
		       labels, annotations, managed_by, spec
		FROM entities
		WHERE kind = ? AND namespace = ? AND name = ?
	`

	row := s.db.QueryRowContext(ctx, query, kind, namespace, name)
	entity, err := scanEntity(row)
	if err == sql.ErrNoRows {
		return models.Entity{}, models.ErrNotFound
	}
	if err != nil {
		return models.Entity{}, err
	}
	return entity, nil
}

// CountEntities returns the number of stored entities, per kind.
func (s *Store) CountEntities(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM entities GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count entities: %v", models.ErrDatabaseError, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("%w: failed to scan count: %v", models.ErrDatabaseError, err)
		}
		counts[kind] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate counts: %v", models.ErrDatabaseError, err)
	}
	return counts, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (models.Entity, error) {
	var entity models.Entity
	var labels, annotations, spec string

	err := row.Scan(
		&entity.Kind, &entity.Namespace, &entity.Name, &entity.Title, &entity.Description,
		&entity.Owner, &labels, &annotations, &entity.ManagedBy, &spec,
	)
	if err == sql.ErrNoRows {
		return models.Entity{}, err
	}
	if err != nil {
		return models.Entity{}, fmt.Errorf("%w: failed to scan entity: %v", models.ErrDatabaseError, err)
	}

	if err := decodeMap(labels, &entity.Labels); err != nil {
		return models.Entity{}, fmt.Errorf("failed to decode labels for %s: %w", entity.Ref(), err)
	}
	if err := decodeMap(annotations, &entity.Annotations); err != nil {
		return models.Entity{}, fmt.Errorf("failed to decode annotations for %s: %w", entity.Ref(), err)
	}
	if spec != "" && spec != "null" {
		var decoded any
		if err := json.Unmarshal([]byte(spec), &decoded); err != nil {
			return models.Entity{}, fmt.Errorf("failed to decode spec for %s: %w", entity.Ref(), err)
		}
		entity.Spec = decoded
	}
	return entity, nil
}

// decodeMap unmarshals a stored JSON object, leaving the target nil when the
// object is empty so round-tripped entities keep omitted optional maps.
func decodeMap(encoded string, target *map[string]string) error {
	decoded := map[string]string{}
	if err := json.Unmarshal([]byte(encoded), &decoded); err != nil {
		return err
	}
	if len(decoded) > 0 {
		*target = decoded
	}
	return nil
}

func orEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
