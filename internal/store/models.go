package store

import (
	"fmt"
	"time"
)

// Kind identifies one of the cached Clockify entity types.
type Kind string

const (
	KindWorkspace Kind = "workspace"
	KindUser      Kind = "user"
	KindProject   Kind = "project"
	KindTask      Kind = "task"
	KindTag       Kind = "tag"
)

// Kinds lists every entity kind in dependency order.
var Kinds = []Kind{KindWorkspace, KindUser, KindProject, KindTask, KindTag}

// kindSpec maps a kind onto its table. parentColumn is empty for the
// workspace, which is the root of every other entity.
type kindSpec struct {
	table        string
	parentColumn string
	named        bool
}

var kindSpecs = map[Kind]kindSpec{
	KindWorkspace: {table: "workspaces"},
	KindUser:      {table: "users", parentColumn: "workspace_id"},
	KindProject:   {table: "projects", parentColumn: "workspace_id", named: true},
	KindTask:      {table: "tasks", parentColumn: "project_id", named: true},
	KindTag:       {table: "tags", parentColumn: "workspace_id", named: true},
}

func specFor(kind Kind) (kindSpec, error) {
	spec, ok := kindSpecs[kind]
	if !ok {
		return kindSpec{}, fmt.Errorf("unknown entity kind %q", kind)
	}
	return spec, nil
}

// ParseKind converts a user-supplied kind name into a Kind.
func ParseKind(value string) (Kind, error) {
	kind := Kind(value)
	if _, err := specFor(kind); err != nil {
		return "", err
	}
	return kind, nil
}

// Plural returns the display form used in messages ("projects", "tags").
func (k Kind) Plural() string {
	return string(k) + "s"
}

// Entity is the uniform record stored for every kind. ParentID is the
// workspace ID for users, projects and tags, and the project ID for tasks.
type Entity struct {
	Kind     Kind      `json:"kind"`
	ID       string    `json:"id"`
	Name     string    `json:"name,omitempty"`
	ParentID string    `json:"parent_id,omitempty"`
	CachedAt time.Time `json:"cached_at"`
}

// Workspace is the root of all other entities.
type Workspace struct {
	ID string
}

// User owns a reference to its default workspace.
type User struct {
	ID          string
	WorkspaceID string
}

// Project is looked up by name within a workspace.
type Project struct {
	ID          string
	Name        string
	WorkspaceID string
}

// Task names are only unique within their project.
type Task struct {
	ID        string
	Name      string
	ProjectID string
}

// Tag is looked up by name within a workspace.
type Tag struct {
	ID          string
	Name        string
	WorkspaceID string
}

func (w Workspace) Entity() Entity { return Entity{Kind: KindWorkspace, ID: w.ID} }

func (u User) Entity() Entity { return Entity{Kind: KindUser, ID: u.ID, ParentID: u.WorkspaceID} }

func (p Project) Entity() Entity {
	return Entity{Kind: KindProject, ID: p.ID, Name: p.Name, ParentID: p.WorkspaceID}
}

func (t Task) Entity() Entity {
	return Entity{Kind: KindTask, ID: t.ID, Name: t.Name, ParentID: t.ProjectID}
}

func (t Tag) Entity() Entity {
	return Entity{Kind: KindTag, ID: t.ID, Name: t.Name, ParentID: t.WorkspaceID}
}

func (e Entity) Workspace() Workspace { return Workspace{ID: e.ID} }

func (e Entity) User() User { return User{ID: e.ID, WorkspaceID: e.ParentID} }

func (e Entity) Project() Project { return Project{ID: e.ID, Name: e.Name, WorkspaceID: e.ParentID} }

func (e Entity) Task() Task { return Task{ID: e.ID, Name: e.Name, ProjectID: e.ParentID} }

func (e Entity) Tag() Tag { return Tag{ID: e.ID, Name: e.Name, WorkspaceID: e.ParentID} }
