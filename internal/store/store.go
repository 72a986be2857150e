package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"dcl/internal/config"
)

var (
	// ErrDuplicate reports an insert that collides with an existing ID or
	// scoped name.
	ErrDuplicate = errors.New("entity already cached")
	// ErrWorkspaceConflict reports an attempt to cache a second workspace.
	// The cache is single-tenant: exactly one workspace, the user's default,
	// is ever stored. Supporting several workspaces means widening every
	// scope key to include the workspace the caller selects.
	ErrWorkspaceConflict = errors.New("a different workspace is already cached")
	// ErrMissingParent reports an insert whose workspace or project is not
	// cached yet.
	ErrMissingParent = errors.New("parent entity not cached")
	// ErrLocked reports that another process holds the cache lock.
	ErrLocked = errors.New("cache is locked by another dcl process")
)

const (
	lockTimeout    = 5 * time.Second
	lockRetryDelay = 50 * time.Millisecond
	sqliteBusyCode = 5
	// Extended SQLITE_CONSTRAINT codes.
	sqliteConstraintForeignKey = 787
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// Store is the local entity cache backed by SQLite. It is opened once per
// process and holds an exclusive file lock until Close.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
	now  func() time.Time
}

// Open creates or connects to the cache database at cfg.CachePath.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(ctx, cfg.CachePath)
}

// OpenPath creates or connects to the cache database at path.
func OpenPath(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("cache path is required")
	}

	lock := flock.New(path + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, lock.Path())
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps the pragmas below in effect for every statement.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &Store{db: db, path: path, lock: lock, now: time.Now}
	if err := s.applyMigrations(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database and releases the cache lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("release cache lock: %w", unlockErr)
		}
	}
	return err
}

// FindByName returns the entity of kind with the given name under scopeID
// (the workspace for projects and tags, the project for tasks).
func (s *Store) FindByName(ctx context.Context, kind Kind, scopeID, name string) (Entity, bool, error) {
	spec, err := specFor(kind)
	if err != nil {
		return Entity{}, false, err
	}
	if !spec.named {
		return Entity{}, false, fmt.Errorf("%s entities have no name", kind)
	}
	query := fmt.Sprintf(
		"SELECT id, name, %s, cached_at FROM %s WHERE %s = ? AND name = ?",
		spec.parentColumn, spec.table, spec.parentColumn,
	)
	row := s.db.QueryRowContext(ctx, query, scopeID, name)
	return scanEntity(kind, spec, row)
}

// FindByID returns the cached entity of kind with the given remote id.
func (s *Store) FindByID(ctx context.Context, kind Kind, id string) (Entity, bool, error) {
	spec, err := specFor(kind)
	if err != nil {
		return Entity{}, false, err
	}
	row := s.db.QueryRowContext(ctx, selectColumns(spec)+" WHERE id = ?", id)
	return scanEntity(kind, spec, row)
}

// FindSingleton returns the cached workspace or user, if any.
func (s *Store) FindSingleton(ctx context.Context, kind Kind) (Entity, bool, error) {
	spec, err := specFor(kind)
	if err != nil {
		return Entity{}, false, err
	}
	if kind != KindWorkspace && kind != KindUser {
		return Entity{}, false, fmt.Errorf("%s is not a singleton kind", kind)
	}
	row := s.db.QueryRowContext(ctx, selectColumns(spec)+" ORDER BY rowid LIMIT 1")
	return scanEntity(kind, spec, row)
}

// Insert persists a newly discovered entity. The write is committed before
// Insert returns.
func (s *Store) Insert(ctx context.Context, entity Entity) error {
	spec, err := specFor(entity.Kind)
	if err != nil {
		return err
	}
	if err := validateEntity(entity, spec); err != nil {
		return err
	}
	if entity.Kind == KindWorkspace {
		existing, found, err := s.FindSingleton(ctx, KindWorkspace)
		if err != nil {
			return err
		}
		if found && existing.ID != entity.ID {
			return fmt.Errorf("%w: cached %s, inserting %s", ErrWorkspaceConflict, existing.ID, entity.ID)
		}
		return s.insertWorkspace(ctx, s.db, entity.ID)
	}
	return s.insertEntity(ctx, s.db, entity, spec)
}

// SeedIdentity stores the workspace (when not yet cached) and the user in a
// single transaction. Both come from the same remote "who am I" response.
func (s *Store) SeedIdentity(ctx context.Context, workspace Workspace, user User) error {
	if strings.TrimSpace(workspace.ID) == "" || strings.TrimSpace(user.ID) == "" {
		return errors.New("workspace and user ids are required")
	}
	if user.WorkspaceID != workspace.ID {
		return fmt.Errorf("user %s belongs to workspace %s, not %s", user.ID, user.WorkspaceID, workspace.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin identity tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing string
	err = tx.QueryRowContext(ctx, "SELECT id FROM workspaces ORDER BY rowid LIMIT 1").Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err := s.insertWorkspace(ctx, tx, workspace.ID); err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("read cached workspace: %w", err)
	case existing != workspace.ID:
		return fmt.Errorf("%w: cached %s, remote default %s", ErrWorkspaceConflict, existing, workspace.ID)
	}

	var users int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM users").Scan(&users); err != nil {
		return fmt.Errorf("count cached users: %w", err)
	}
	if users == 0 {
		if err := s.insertEntity(ctx, tx, user.Entity(), kindSpecs[KindUser]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit identity: %w", err)
	}
	return nil
}

// List returns every cached entity of kind ordered by name then id.
func (s *Store) List(ctx context.Context, kind Kind) ([]Entity, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}
	order := " ORDER BY id"
	if spec.named {
		order = " ORDER BY name, id"
	}
	rows, err := s.db.QueryContext(ctx, selectColumns(spec)+order)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.Plural(), err)
	}
	defer rows.Close()

	var entities []Entity
	for rows.Next() {
		entity, _, err := scanEntity(kind, spec, rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

// Count returns the number of cached entities of kind.
func (s *Store) Count(ctx context.Context, kind Kind) (int, error) {
	spec, err := specFor(kind)
	if err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM "+spec.table).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", kind.Plural(), err)
	}
	return count, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insertWorkspace(ctx context.Context, db execer, id string) error {
	_, err := db.ExecContext(ctx, "INSERT INTO workspaces (id, cached_at) VALUES (?, ?)", id, s.timestamp())
	if err != nil {
		return insertError(KindWorkspace, id, err)
	}
	return nil
}

func (s *Store) insertEntity(ctx context.Context, db execer, entity Entity, spec kindSpec) error {
	var (
		query string
		args  []any
	)
	if spec.named {
		query = fmt.Sprintf("INSERT INTO %s (id, name, %s, cached_at) VALUES (?, ?, ?, ?)", spec.table, spec.parentColumn)
		args = []any{entity.ID, entity.Name, entity.ParentID, s.timestamp()}
	} else {
		query = fmt.Sprintf("INSERT INTO %s (id, %s, cached_at) VALUES (?, ?, ?)", spec.table, spec.parentColumn)
		args = []any{entity.ID, entity.ParentID, s.timestamp()}
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return insertError(entity.Kind, entity.ID, err)
	}
	return nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func validateEntity(entity Entity, spec kindSpec) error {
	if strings.TrimSpace(entity.ID) == "" {
		return fmt.Errorf("%s id is required", entity.Kind)
	}
	if spec.named && entity.Name == "" {
		return fmt.Errorf("%s name is required", entity.Kind)
	}
	if spec.parentColumn != "" && strings.TrimSpace(entity.ParentID) == "" {
		return fmt.Errorf("%s %s is required", entity.Kind, spec.parentColumn)
	}
	return nil
}

func selectColumns(spec kindSpec) string {
	switch {
	case spec.named:
		return fmt.Sprintf("SELECT id, name, %s, cached_at FROM %s", spec.parentColumn, spec.table)
	case spec.parentColumn != "":
		return fmt.Sprintf("SELECT id, '', %s, cached_at FROM %s", spec.parentColumn, spec.table)
	default:
		return fmt.Sprintf("SELECT id, '', '', cached_at FROM %s", spec.table)
	}
}

func scanEntity(kind Kind, spec kindSpec, scanner interface{ Scan(dest ...any) error }) (Entity, bool, error) {
	var (
		entity    = Entity{Kind: kind}
		cachedRaw string
	)
	err := scanner.Scan(&entity.ID, &entity.Name, &entity.ParentID, &cachedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return Entity{}, false, nil
	}
	if err != nil {
		return Entity{}, false, fmt.Errorf("scan %s: %w", kind, err)
	}
	if cachedAt, err := time.Parse(time.RFC3339Nano, cachedRaw); err == nil {
		entity.CachedAt = cachedAt
	}
	return entity, true, nil
}

func insertError(kind Kind, id string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("insert %s %s: %w: %v", kind, id, ErrDuplicate, err)
	}
	if isForeignKeyViolation(err) {
		return fmt.Errorf("insert %s %s: %w: %v", kind, id, ErrMissingParent, err)
	}
	if isSQLiteBusy(err) {
		return fmt.Errorf("insert %s %s: %w: %v", kind, id, ErrLocked, err)
	}
	return fmt.Errorf("insert %s %s: %w", kind, id, err)
}

func isUniqueViolation(err error) bool {
	var coder interface{ Code() int }
	if errors.As(err, &coder) && (coder.Code() == sqliteConstraintUnique || coder.Code() == sqliteConstraintPrimaryKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteConstraintForeignKey {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isSQLiteBusy(err error) bool {
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
