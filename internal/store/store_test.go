package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dcl/internal/store"
	"dcl/internal/testsupport"
)

func seed(t *testing.T, st *store.Store) {
	t.Helper()
	err := st.SeedIdentity(context.Background(), store.Workspace{ID: "ws-1"}, store.User{ID: "user-1", WorkspaceID: "ws-1"})
	if err != nil {
		t.Fatalf("SeedIdentity failed: %v", err)
	}
}

func TestOpenCreatesEmptySchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	for _, kind := range store.Kinds {
		count, err := st.Count(ctx, kind)
		if err != nil {
			t.Fatalf("Count(%s) failed: %v", kind, err)
		}
		if count != 0 {
			t.Fatalf("expected empty %s table, got %d", kind.Plural(), count)
		}
	}
	if _, found, err := st.Workspace(ctx); err != nil || found {
		t.Fatalf("expected no workspace, found=%v err=%v", found, err)
	}
}

func TestSeedIdentityStoresWorkspaceAndUser(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	seed(t, st)

	ctx := context.Background()
	ws, found, err := st.Workspace(ctx)
	if err != nil || !found {
		t.Fatalf("Workspace: found=%v err=%v", found, err)
	}
	if ws.ID != "ws-1" {
		t.Fatalf("unexpected workspace %#v", ws)
	}
	user, found, err := st.User(ctx)
	if err != nil || !found {
		t.Fatalf("User: found=%v err=%v", found, err)
	}
	if user.ID != "user-1" || user.WorkspaceID != "ws-1" {
		t.Fatalf("unexpected user %#v", user)
	}

	// Seeding the same identity again is a no-op.
	seed(t, st)
	if count, _ := st.Count(ctx, store.KindUser); count != 1 {
		t.Fatalf("expected one user after reseed, got %d", count)
	}
}

func TestSeedIdentityRejectsSecondWorkspace(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	seed(t, st)

	err := st.SeedIdentity(context.Background(), store.Workspace{ID: "ws-2"}, store.User{ID: "user-2", WorkspaceID: "ws-2"})
	if !errors.Is(err, store.ErrWorkspaceConflict) {
		t.Fatalf("expected ErrWorkspaceConflict, got %v", err)
	}
}

func TestSeedIdentityAddsUserToCachedWorkspace(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if err := st.Insert(ctx, store.Workspace{ID: "ws-1"}.Entity()); err != nil {
		t.Fatalf("Insert workspace failed: %v", err)
	}
	seed(t, st)
	if count, _ := st.Count(ctx, store.KindWorkspace); count != 1 {
		t.Fatalf("expected one workspace, got %d", count)
	}
	if _, found, _ := st.User(ctx); !found {
		t.Fatal("expected user to be cached")
	}
}

func TestFindByNameIsScoped(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	seed(t, st)

	ctx := context.Background()
	projects := []store.Project{
		{ID: "p-1", Name: "Internal", WorkspaceID: "ws-1"},
		{ID: "p-2", Name: "Acme", WorkspaceID: "ws-1"},
	}
	for _, p := range projects {
		if err := st.Insert(ctx, p.Entity()); err != nil {
			t.Fatalf("Insert project failed: %v", err)
		}
	}
	tasks := []store.Task{
		{ID: "t-1", Name: "Meetings", ProjectID: "p-1"},
		{ID: "t-2", Name: "Meetings", ProjectID: "p-2"},
	}
	for _, task := range tasks {
		if err := st.Insert(ctx, task.Entity()); err != nil {
			t.Fatalf("Insert task failed: %v", err)
		}
	}

	task, found, err := st.TaskByName(ctx, "p-2", "Meetings")
	if err != nil || !found {
		t.Fatalf("TaskByName: found=%v err=%v", found, err)
	}
	if task.ID != "t-2" {
		t.Fatalf("expected task scoped to p-2, got %#v", task)
	}

	if _, found, err := st.ProjectByName(ctx, "ws-1", "internal"); err != nil || found {
		t.Fatalf("expected case-sensitive miss, found=%v err=%v", found, err)
	}
	if _, found, err := st.TaskByName(ctx, "p-3", "Meetings"); err != nil || found {
		t.Fatalf("expected miss in other project, found=%v err=%v", found, err)
	}
}

func TestInsertRejectsDuplicateName(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	seed(t, st)

	ctx := context.Background()
	if err := st.Insert(ctx, store.Tag{ID: "tag-1", Name: "Overhead", WorkspaceID: "ws-1"}.Entity()); err != nil {
		t.Fatalf("Insert tag failed: %v", err)
	}
	err := st.Insert(ctx, store.Tag{ID: "tag-2", Name: "Overhead", WorkspaceID: "ws-1"}.Entity())
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestFindByID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	seed(t, st)
	ctx := context.Background()

	if err := st.Insert(ctx, store.Tag{ID: "tag-1", Name: "Overhead", WorkspaceID: "ws-1"}.Entity()); err != nil {
		t.Fatalf("Insert tag: %v", err)
	}
	tag, found, err := st.FindByID(ctx, store.KindTag, "tag-1")
	if err != nil || !found {
		t.Fatalf("FindByID: found=%v err=%v", found, err)
	}
	if tag.Name != "Overhead" || tag.ParentID != "ws-1" {
		t.Fatalf("unexpected tag %#v", tag)
	}
	if _, found, err := st.FindByID(ctx, store.KindTag, "tag-2"); err != nil || found {
		t.Fatalf("expected miss, found=%v err=%v", found, err)
	}
	ws, found, err := st.FindByID(ctx, store.KindWorkspace, "ws-1")
	if err != nil || !found || ws.ID != "ws-1" {
		t.Fatalf("workspace by id: %#v found=%v err=%v", ws, found, err)
	}
}

func TestInsertRequiresExistingParent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	seed(t, st)

	err := st.Insert(context.Background(), store.Task{ID: "t-1", Name: "Meetings", ProjectID: "missing"}.Entity())
	if !errors.Is(err, store.ErrMissingParent) {
		t.Fatalf("expected ErrMissingParent, got %v", err)
	}
}

func TestInsertValidatesFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	seed(t, st)

	ctx := context.Background()
	cases := []store.Entity{
		{Kind: store.KindProject, Name: "No ID", ParentID: "ws-1"},
		{Kind: store.KindProject, ID: "p-1", ParentID: "ws-1"},
		{Kind: store.KindTag, ID: "tag-1", Name: "Orphan"},
		{Kind: store.Kind("client"), ID: "c-1"},
	}
	for _, entity := range cases {
		if err := st.Insert(ctx, entity); err == nil {
			t.Fatalf("expected validation error for %#v", entity)
		}
	}
}

func TestEntitiesPersistAcrossReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	seed(t, st)
	if err := st.Insert(ctx, store.Project{ID: "p-1", Name: "Internal", WorkspaceID: "ws-1"}.Entity()); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	project, found, err := reopened.ProjectByName(ctx, "ws-1", "Internal")
	if err != nil || !found {
		t.Fatalf("ProjectByName after reopen: found=%v err=%v", found, err)
	}
	if project.ID != "p-1" {
		t.Fatalf("unexpected project %#v", project)
	}
}

func TestListOrdersByName(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	seed(t, st)

	ctx := context.Background()
	for _, tag := range []store.Tag{
		{ID: "tag-b", Name: "Overhead", WorkspaceID: "ws-1"},
		{ID: "tag-a", Name: "Eng:Backend", WorkspaceID: "ws-1"},
	} {
		if err := st.Insert(ctx, tag.Entity()); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	tags, err := st.List(ctx, store.KindTag)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tags) != 2 || tags[0].Name != "Eng:Backend" || tags[1].Name != "Overhead" {
		t.Fatalf("unexpected tag order: %#v", tags)
	}
	if tags[0].CachedAt.IsZero() {
		t.Fatal("expected cached_at to be recorded")
	}

	users, err := st.List(ctx, store.KindUser)
	if err != nil {
		t.Fatalf("List users failed: %v", err)
	}
	if len(users) != 1 || users[0].ParentID != "ws-1" {
		t.Fatalf("unexpected users: %#v", users)
	}
}

func TestSecondOpenIsLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.MustOpenStore(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := store.Open(ctx, cfg)
	if !errors.Is(err, store.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	kind, err := store.ParseKind("task")
	if err != nil || kind != store.KindTask {
		t.Fatalf("ParseKind(task) = %q, %v", kind, err)
	}
	if _, err := store.ParseKind("client"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
