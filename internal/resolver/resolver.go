package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dcl/internal/clockify"
	"dcl/internal/logging"
	"dcl/internal/services"
	"dcl/internal/store"
)

// Cache is the subset of the entity store the resolver reads and grows.
type Cache interface {
	FindByName(ctx context.Context, kind store.Kind, scopeID, name string) (store.Entity, bool, error)
	FindSingleton(ctx context.Context, kind store.Kind) (store.Entity, bool, error)
	FindByID(ctx context.Context, kind store.Kind, id string) (store.Entity, bool, error)
	Insert(ctx context.Context, entity store.Entity) error
	SeedIdentity(ctx context.Context, workspace store.Workspace, user store.User) error
}

// Directory is the remote side of a lookup.
type Directory interface {
	CurrentUser(ctx context.Context) (*clockify.CurrentUser, error)
	FindProjects(ctx context.Context, workspaceID, name string) ([]clockify.Project, error)
	FindTags(ctx context.Context, workspaceID, name string) ([]clockify.Tag, error)
	FindTasks(ctx context.Context, workspaceID, projectID, name string) ([]clockify.Task, error)
}

var (
	_ Cache     = (*store.Store)(nil)
	_ Directory = (*clockify.Client)(nil)
)

// Resolver maps names to cached or freshly fetched entities.
type Resolver struct {
	cache  Cache
	remote Directory
	logger *slog.Logger
}

// New constructs a Resolver. A nil logger discards output.
func New(cache Cache, remote Directory, logger *slog.Logger) *Resolver {
	return &Resolver{
		cache:  cache,
		remote: remote,
		logger: logging.NewComponentLogger(logger, "resolver"),
	}
}

// Workspace returns the cached workspace, fetching the current user's
// default workspace on first use.
func (r *Resolver) Workspace(ctx context.Context) (store.Workspace, error) {
	entity, found, err := r.cache.FindSingleton(ctx, store.KindWorkspace)
	if err != nil {
		return store.Workspace{}, fmt.Errorf("read cached workspace: %w", err)
	}
	if found {
		return entity.Workspace(), nil
	}
	workspace, _, err := r.fetchIdentity(ctx)
	return workspace, err
}

// User returns the cached user, fetching it on first use.
func (r *Resolver) User(ctx context.Context) (store.User, error) {
	entity, found, err := r.cache.FindSingleton(ctx, store.KindUser)
	if err != nil {
		return store.User{}, fmt.Errorf("read cached user: %w", err)
	}
	if found {
		return entity.User(), nil
	}
	_, user, err := r.fetchIdentity(ctx)
	return user, err
}

// Project resolves a project name within workspace.
func (r *Resolver) Project(ctx context.Context, workspace store.Workspace, name string) (store.Project, error) {
	entity, err := r.resolveNamed(ctx, store.KindProject, workspace.ID, name, func(ctx context.Context) ([]string, error) {
		projects, err := r.remote.FindProjects(ctx, workspace.ID, name)
		return collectIDs(projects, func(p clockify.Project) string { return p.ID }), err
	})
	if err != nil {
		return store.Project{}, err
	}
	return entity.Project(), nil
}

// Task resolves a task name within project.
func (r *Resolver) Task(ctx context.Context, project store.Project, name string) (store.Task, error) {
	entity, err := r.resolveNamed(ctx, store.KindTask, project.ID, name, func(ctx context.Context) ([]string, error) {
		tasks, err := r.remote.FindTasks(ctx, project.WorkspaceID, project.ID, name)
		return collectIDs(tasks, func(t clockify.Task) string { return t.ID }), err
	})
	if err != nil {
		return store.Task{}, err
	}
	return entity.Task(), nil
}

// Tag resolves one tag name within workspace.
func (r *Resolver) Tag(ctx context.Context, workspace store.Workspace, name string) (store.Tag, error) {
	entity, err := r.resolveNamed(ctx, store.KindTag, workspace.ID, name, func(ctx context.Context) ([]string, error) {
		tags, err := r.remote.FindTags(ctx, workspace.ID, name)
		return collectIDs(tags, func(t clockify.Tag) string { return t.ID }), err
	})
	if err != nil {
		return store.Tag{}, err
	}
	return entity.Tag(), nil
}

// Tags resolves each name in order. Duplicates are kept. The first name
// that fails to resolve aborts the whole list.
func (r *Resolver) Tags(ctx context.Context, workspace store.Workspace, names []string) ([]store.Tag, error) {
	tags := make([]store.Tag, 0, len(names))
	for _, name := range names {
		tag, err := r.Tag(ctx, workspace, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// resolveNamed is the cache-aside lookup shared by every named kind.
func (r *Resolver) resolveNamed(
	ctx context.Context,
	kind store.Kind,
	scopeID string,
	name string,
	fetch func(context.Context) ([]string, error),
) (store.Entity, error) {
	entity, found, err := r.cache.FindByName(ctx, kind, scopeID, name)
	if err != nil {
		return store.Entity{}, fmt.Errorf("read cached %s %q: %w", kind, name, err)
	}
	if found {
		return entity, nil
	}

	r.logger.Debug("cache miss, querying clockify",
		logging.String(logging.FieldKind, string(kind)),
		logging.String("name", name),
		logging.String("scope_id", scopeID),
	)
	ids, err := fetch(ctx)
	if err != nil {
		return store.Entity{}, err
	}
	switch len(ids) {
	case 0:
		return store.Entity{}, notFound(kind, name)
	case 1:
	default:
		return store.Entity{}, ambiguous(kind, name, len(ids))
	}

	entity = store.Entity{Kind: kind, ID: ids[0], Name: name, ParentID: scopeID}
	if err := r.cache.Insert(ctx, entity); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			if cached, found, findErr := r.cache.FindByID(ctx, kind, entity.ID); findErr == nil && found && cached.Name != name {
				return store.Entity{}, &AliasError{Kind: kind, Name: name, CachedName: cached.Name, ID: entity.ID, Err: err}
			}
		}
		return store.Entity{}, fmt.Errorf("cache %s %q: %w", kind, name, err)
	}
	r.logger.Debug("cached entity",
		logging.String(logging.FieldKind, string(kind)),
		logging.String("name", name),
		logging.String("id", entity.ID),
	)
	return entity, nil
}

// fetchIdentity performs the single "who am I" call that yields both the
// user and their default workspace, and caches both.
func (r *Resolver) fetchIdentity(ctx context.Context) (store.Workspace, store.User, error) {
	r.logger.Debug("cache miss, fetching current user")
	current, err := r.remote.CurrentUser(ctx)
	if err != nil {
		return store.Workspace{}, store.User{}, err
	}
	workspace := store.Workspace{ID: current.DefaultWorkspace}
	user := store.User{ID: current.ID, WorkspaceID: current.DefaultWorkspace}
	if err := r.cache.SeedIdentity(ctx, workspace, user); err != nil {
		if errors.Is(err, store.ErrWorkspaceConflict) {
			return store.Workspace{}, store.User{}, services.Wrap(
				services.ErrConfiguration,
				"cache identity",
				"the cache belongs to a different workspace; remove the cache file to switch accounts",
				err,
			)
		}
		return store.Workspace{}, store.User{}, fmt.Errorf("cache identity: %w", err)
	}
	r.logger.Debug("cached identity",
		logging.String("workspace_id", workspace.ID),
		logging.String("user_id", user.ID),
	)
	return workspace, user, nil
}

func collectIDs[T any](items []T, id func(T) string) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, id(item))
	}
	return ids
}
