package resolver_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"dcl/internal/clockify"
	"dcl/internal/resolver"
	"dcl/internal/services"
	"dcl/internal/store"
	"dcl/internal/testsupport"
)

type fixture struct {
	fake     *testsupport.FakeClockify
	store    *store.Store
	resolver *resolver.Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := testsupport.NewFakeClockify(t)
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(fake.URL()), testsupport.WithAPIKey(fake.APIKey))
	st := testsupport.MustOpenStore(t, cfg)
	client, err := clockify.NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("clockify.NewFromConfig: %v", err)
	}
	return &fixture{fake: fake, store: st, resolver: resolver.New(st, client, nil)}
}

func (f *fixture) workspace(t *testing.T) store.Workspace {
	t.Helper()
	ws, err := f.resolver.Workspace(context.Background())
	if err != nil {
		t.Fatalf("Workspace returned error: %v", err)
	}
	return ws
}

func TestWorkspaceAndUserShareOneFetch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ws := f.workspace(t)
	if ws.ID != f.fake.WorkspaceID {
		t.Fatalf("unexpected workspace %#v", ws)
	}
	user, err := f.resolver.User(ctx)
	if err != nil {
		t.Fatalf("User returned error: %v", err)
	}
	if user.ID != f.fake.UserID || user.WorkspaceID != ws.ID {
		t.Fatalf("unexpected user %#v", user)
	}
	if got := f.fake.Count(http.MethodGet, "/user"); got != 1 {
		t.Fatalf("expected one GET /user, got %d", got)
	}
}

func TestUserFetchedWhenOnlyWorkspaceCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.store.Insert(ctx, store.Workspace{ID: f.fake.WorkspaceID}.Entity()); err != nil {
		t.Fatalf("Insert workspace: %v", err)
	}

	f.workspace(t)
	if got := f.fake.Count(http.MethodGet, "/user"); got != 0 {
		t.Fatalf("cached workspace should not hit the API, got %d calls", got)
	}
	user, err := f.resolver.User(ctx)
	if err != nil {
		t.Fatalf("User returned error: %v", err)
	}
	if user.ID != f.fake.UserID {
		t.Fatalf("unexpected user %#v", user)
	}
	if count, _ := f.store.Count(ctx, store.KindWorkspace); count != 1 {
		t.Fatalf("expected workspace count to stay 1, got %d", count)
	}
}

func TestWorkspaceConflictIsConfigurationError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.store.Insert(ctx, store.Workspace{ID: "ws-other"}.Entity()); err != nil {
		t.Fatalf("Insert workspace: %v", err)
	}

	_, err := f.resolver.User(ctx)
	if !errors.Is(err, store.ErrWorkspaceConflict) || !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error wrapping ErrWorkspaceConflict, got %v", err)
	}
}

func TestProjectResolvedOnceThenCached(t *testing.T) {
	f := newFixture(t)
	id := f.fake.AddProject("Internal")
	ws := f.workspace(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		project, err := f.resolver.Project(ctx, ws, "Internal")
		if err != nil {
			t.Fatalf("Project returned error: %v", err)
		}
		if project.ID != id || project.WorkspaceID != ws.ID {
			t.Fatalf("unexpected project %#v", project)
		}
	}
	if got := f.fake.Count(http.MethodGet, "/workspaces/ws-1/projects"); got != 1 {
		t.Fatalf("expected one remote project lookup, got %d", got)
	}
	if count, _ := f.store.Count(ctx, store.KindProject); count != 1 {
		t.Fatalf("expected one cached project, got %d", count)
	}
}

func TestCallerNameIsPersisted(t *testing.T) {
	f := newFixture(t)
	f.fake.AddProject("Acme Corporation")
	ws := f.workspace(t)
	ctx := context.Background()

	project, err := f.resolver.Project(ctx, ws, "acme corp")
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	if project.Name != "acme corp" {
		t.Fatalf("expected caller-supplied name, got %q", project.Name)
	}
	if _, found, _ := f.store.ProjectByName(ctx, ws.ID, "acme corp"); !found {
		t.Fatal("expected project cached under caller-supplied name")
	}
	if _, err := f.resolver.Project(ctx, ws, "acme corp"); err != nil {
		t.Fatalf("second lookup failed: %v", err)
	}
	if got := f.fake.Count(http.MethodGet, "/workspaces/ws-1/projects"); got != 1 {
		t.Fatalf("expected cache hit on second lookup, got %d remote calls", got)
	}
}

func TestProjectNotFound(t *testing.T) {
	f := newFixture(t)
	ws := f.workspace(t)
	ctx := context.Background()

	_, err := f.resolver.Project(ctx, ws, "Nope")
	var lookupErr *resolver.LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected LookupError, got %v", err)
	}
	if !errors.Is(err, services.ErrNotFound) || lookupErr.Kind != store.KindProject || lookupErr.Name != "Nope" {
		t.Fatalf("unexpected lookup error: %#v", lookupErr)
	}
	if count, _ := f.store.Count(ctx, store.KindProject); count != 0 {
		t.Fatalf("nothing should be cached on failure, got %d", count)
	}
}

func TestProjectAmbiguous(t *testing.T) {
	f := newFixture(t)
	f.fake.AddProject("Internal")
	f.fake.AddProject("Internal Tools")
	ws := f.workspace(t)

	_, err := f.resolver.Project(context.Background(), ws, "Internal")
	var lookupErr *resolver.LookupError
	if !errors.As(err, &lookupErr) || !errors.Is(err, services.ErrAmbiguous) {
		t.Fatalf("expected ambiguous lookup error, got %v", err)
	}
	if lookupErr.Matches != 2 {
		t.Fatalf("expected 2 matches, got %d", lookupErr.Matches)
	}
	if services.ExitCode(err) != services.ExitLookup {
		t.Fatalf("unexpected exit code %d", services.ExitCode(err))
	}
}

func TestTaskScopedByProject(t *testing.T) {
	f := newFixture(t)
	internal := f.fake.AddProject("Internal")
	acme := f.fake.AddProject("Acme")
	f.fake.AddTask(internal, "Meetings")
	acmeMeetings := f.fake.AddTask(acme, "Meetings")
	ws := f.workspace(t)
	ctx := context.Background()

	if _, err := f.resolver.Project(ctx, ws, "Internal"); err != nil {
		t.Fatalf("Project(Internal): %v", err)
	}
	project, err := f.resolver.Project(ctx, ws, "Acme")
	if err != nil {
		t.Fatalf("Project(Acme): %v", err)
	}
	task, err := f.resolver.Task(ctx, project, "Meetings")
	if err != nil {
		t.Fatalf("Task returned error: %v", err)
	}
	if task.ID != acmeMeetings || task.ProjectID != acme {
		t.Fatalf("unexpected task %#v", task)
	}
}

func TestTagsPreserveOrderAndDuplicates(t *testing.T) {
	f := newFixture(t)
	overhead := f.fake.AddTag("Overhead", false)
	backend := f.fake.AddTag("Eng:Backend", false)
	ws := f.workspace(t)

	tags, err := f.resolver.Tags(context.Background(), ws, []string{"Overhead", "Eng:Backend", "Overhead"})
	if err != nil {
		t.Fatalf("Tags returned error: %v", err)
	}
	want := []string{overhead, backend, overhead}
	if len(tags) != len(want) {
		t.Fatalf("expected %d tags, got %#v", len(want), tags)
	}
	for i, tag := range tags {
		if tag.ID != want[i] {
			t.Fatalf("tag %d: expected %s, got %s", i, want[i], tag.ID)
		}
	}
	if got := f.fake.Count(http.MethodGet, "/workspaces/ws-1/tags"); got != 2 {
		t.Fatalf("expected duplicate tag served from cache, got %d remote calls", got)
	}
}

func TestSecondNameForCachedTagIsAliasError(t *testing.T) {
	f := newFixture(t)
	id := f.fake.AddTag("Overhead", false)
	ws := f.workspace(t)
	ctx := context.Background()

	if _, err := f.resolver.Tag(ctx, ws, "Overhead"); err != nil {
		t.Fatalf("Tag(Overhead): %v", err)
	}
	_, err := f.resolver.Tag(ctx, ws, "overhead")
	var aliasErr *resolver.AliasError
	if !errors.As(err, &aliasErr) {
		t.Fatalf("expected AliasError, got %v", err)
	}
	if aliasErr.Name != "overhead" || aliasErr.CachedName != "Overhead" || aliasErr.ID != id {
		t.Fatalf("unexpected alias error %#v", aliasErr)
	}
	if !errors.Is(err, store.ErrDuplicate) || !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected duplicate configuration error, got %v", err)
	}
	if services.ExitCode(err) != services.ExitConfiguration {
		t.Fatalf("unexpected exit code %d", services.ExitCode(err))
	}
	if msg := err.Error(); !strings.Contains(msg, `"overhead"`) || !strings.Contains(msg, `"Overhead"`) {
		t.Fatalf("expected both names in %q", msg)
	}
	if count, _ := f.store.Count(ctx, store.KindTag); count != 1 {
		t.Fatalf("expected one cached tag, got %d", count)
	}
}

func TestTagsReportFirstFailingName(t *testing.T) {
	f := newFixture(t)
	f.fake.AddTag("Overhead", false)
	ws := f.workspace(t)

	_, err := f.resolver.Tags(context.Background(), ws, []string{"Overhead", "Missing", "Also Missing"})
	var lookupErr *resolver.LookupError
	if !errors.As(err, &lookupErr) || lookupErr.Name != "Missing" {
		t.Fatalf("expected failure on first missing tag, got %v", err)
	}
}

func TestEmptyTagListResolvesToNothing(t *testing.T) {
	f := newFixture(t)
	ws := f.workspace(t)

	tags, err := f.resolver.Tags(context.Background(), ws, nil)
	if err != nil || len(tags) != 0 {
		t.Fatalf("expected empty result, got %#v, %v", tags, err)
	}
}

func TestRemoteErrorPropagates(t *testing.T) {
	f := newFixture(t)
	ws := f.workspace(t)
	f.fake.Fail(http.MethodGet, "/workspaces/ws-1/projects", http.StatusInternalServerError, "boom")

	_, err := f.resolver.Project(context.Background(), ws, "Internal")
	if !errors.Is(err, services.ErrRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
}
