package testsupport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

const fakeAPIPrefix = "/api/v1"

// Request captures a call received by FakeClockify.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// DecodeBody unmarshals the captured JSON body into v.
func (r Request) DecodeBody(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("decode %s %s body: %v", r.Method, r.Path, err)
	}
}

type fakeNamed struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WorkspaceID string `json:"workspaceId,omitempty"`
	ProjectID   string `json:"projectId,omitempty"`
	Archived    bool   `json:"archived,omitempty"`
}

type fakeFailure struct {
	status int
	body   string
}

// FakeClockify is an in-memory Clockify API served over httptest. Name
// filters match case-insensitive substrings, like the real service.
type FakeClockify struct {
	Server      *httptest.Server
	APIKey      string
	UserID      string
	WorkspaceID string

	mu       sync.Mutex
	projects []fakeNamed
	tags     []fakeNamed
	tasks    []fakeNamed
	running  bool
	nextID   int
	requests []Request
	failures map[string]fakeFailure
}

// NewFakeClockify starts a fake server and registers its shutdown.
func NewFakeClockify(t testing.TB) *FakeClockify {
	t.Helper()

	fake := &FakeClockify{
		APIKey:      "test-api-key",
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		failures:    make(map[string]fakeFailure),
	}
	fake.Server = httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(fake.Server.Close)
	return fake
}

// URL returns the API base URL, including the version prefix.
func (f *FakeClockify) URL() string {
	return f.Server.URL + fakeAPIPrefix
}

// AddProject registers a project and returns its ID.
func (f *FakeClockify) AddProject(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.newID("project")
	f.projects = append(f.projects, fakeNamed{ID: id, Name: name, WorkspaceID: f.WorkspaceID})
	return id
}

// AddTag registers a tag and returns its ID.
func (f *FakeClockify) AddTag(name string, archived bool) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.newID("tag")
	f.tags = append(f.tags, fakeNamed{ID: id, Name: name, WorkspaceID: f.WorkspaceID, Archived: archived})
	return id
}

// AddTask registers a task under projectID and returns its ID.
func (f *FakeClockify) AddTask(projectID, name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.newID("task")
	f.tasks = append(f.tasks, fakeNamed{ID: id, Name: name, ProjectID: projectID})
	return id
}

// SetRunning controls whether a timer is running for the user.
func (f *FakeClockify) SetRunning(running bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = running
}

// Running reports whether a timer is running.
func (f *FakeClockify) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Fail makes every request to method and path (relative to URL) answer
// with status and body.
func (f *FakeClockify) Fail(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = fakeFailure{status: status, body: body}
}

// Requests returns a copy of all captured requests in arrival order.
func (f *FakeClockify) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// Count returns how many requests matched method and path.
func (f *FakeClockify) Count(method, path string) int {
	count := 0
	for _, req := range f.Requests() {
		if req.Method == method && req.Path == path {
			count++
		}
	}
	return count
}

func (f *FakeClockify) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *FakeClockify) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, fakeAPIPrefix)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, Request{
		Method: r.Method,
		Path:   path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})

	if r.Header.Get("X-Api-Key") != f.APIKey {
		http.Error(w, `{"message":"Full authentication is required","code":1000}`, http.StatusUnauthorized)
		return
	}
	if failure, ok := f.failures[r.Method+" "+path]; ok {
		http.Error(w, failure.body, failure.status)
		return
	}

	ws := "/workspaces/" + f.WorkspaceID
	switch {
	case r.Method == http.MethodGet && path == "/user":
		writeJSON(w, http.StatusOK, map[string]string{
			"id":               f.UserID,
			"name":             "Test User",
			"defaultWorkspace": f.WorkspaceID,
		})
	case r.Method == http.MethodGet && path == ws+"/projects":
		writeJSON(w, http.StatusOK, filterNamed(f.projects, r.URL.Query(), ""))
	case r.Method == http.MethodGet && path == ws+"/tags":
		writeJSON(w, http.StatusOK, filterNamed(f.tags, r.URL.Query(), ""))
	case r.Method == http.MethodGet && strings.HasPrefix(path, ws+"/projects/") && strings.HasSuffix(path, "/tasks"):
		projectID := strings.TrimSuffix(strings.TrimPrefix(path, ws+"/projects/"), "/tasks")
		writeJSON(w, http.StatusOK, filterNamed(f.tasks, r.URL.Query(), projectID))
	case r.Method == http.MethodPatch && path == ws+"/user/"+f.UserID+"/time-entries":
		if !f.running {
			http.Error(w, `{"message":"Time entry not found","code":404}`, http.StatusNotFound)
			return
		}
		f.running = false
		writeJSON(w, http.StatusOK, map[string]string{"id": "entry-stopped"})
	case r.Method == http.MethodPost && path == ws+"/time-entries":
		f.running = true
		writeJSON(w, http.StatusCreated, map[string]string{"id": f.newID("entry")})
	default:
		http.NotFound(w, r)
	}
}

func filterNamed(items []fakeNamed, query url.Values, projectID string) []fakeNamed {
	name := strings.ToLower(query.Get("name"))
	excludeArchived := query.Get("archived") == "false"
	matches := make([]fakeNamed, 0)
	for _, item := range items {
		if projectID != "" && item.ProjectID != projectID {
			continue
		}
		if excludeArchived && item.Archived {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(item.Name), name) {
			continue
		}
		matches = append(matches, item)
	}
	return matches
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
