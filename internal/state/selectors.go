package state

import (
	"reflect"
	"sort"
	"sync"

	"github.com/philjestin/boatmanapp-sub000/internal/types"
)

// Selectors are memoized read-only projections over the store. Memoization
// keys are the identity of the slice or table being projected, so a change
// to an unrelated part of the state does not invalidate a cached result.
// Safe for concurrent readers: snapshots are immutable.
type Selectors struct {
	store *Store

	mu         sync.Mutex
	tasksMemo  map[string]memoEntry[[]*types.Task]
	recentMemo memoEntry[[]*types.Project]
	recentN    int
	pathsMemo  memoEntry[[]string]
}

type memoEntry[T any] struct {
	key    uintptr
	length int
	value  T
	valid  bool
}

func NewSelectors(store *Store) *Selectors {
	return &Selectors{
		store:     store,
		tasksMemo: map[string]memoEntry[[]*types.Task]{},
	}
}

// identity keys a slice or map by its backing storage.
func identity(v any) uintptr {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.IsNil() {
		return 0
	}
	return rv.Pointer()
}

func (sel *Selectors) ActiveSession() *types.Session {
	s := sel.store.Snapshot()
	if s.ActiveSessionID == "" {
		return nil
	}
	return s.Sessions[s.ActiveSessionID]
}

func (sel *Selectors) ActiveSessionID() string {
	return sel.store.Snapshot().ActiveSessionID
}

func (sel *Selectors) Session(id string) *types.Session {
	return sel.store.Snapshot().Session(id)
}

// Sessions returns all rows, newest first. Derived fresh per call; the rows
// themselves are shared snapshots.
func (sel *Selectors) Sessions() []*types.Session {
	s := sel.store.Snapshot()
	out := make([]*types.Session, 0, len(s.Sessions))
	for _, session := range s.Sessions {
		out = append(out, session)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// MessagesFor returns the materialized message window in (timestamp, id)
// order. The slice is the store's own immutable snapshot, so its identity is
// stable until the session's messages change.
func (sel *Selectors) MessagesFor(id string) []*types.Message {
	session := sel.store.Snapshot().Session(id)
	if session == nil {
		return nil
	}
	return session.Messages
}

// TasksFor projects the task table to a slice ordered by task id. Memoized
// per session on the table's identity.
func (sel *Selectors) TasksFor(id string) []*types.Task {
	session := sel.store.Snapshot().Session(id)
	if session == nil || len(session.Tasks) == 0 {
		return nil
	}
	key := identity(session.Tasks)

	sel.mu.Lock()
	defer sel.mu.Unlock()
	if memo, ok := sel.tasksMemo[id]; ok && memo.valid && memo.key == key && memo.length == len(session.Tasks) {
		return memo.value
	}
	tasks := make([]*types.Task, 0, len(session.Tasks))
	for _, task := range session.Tasks {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	sel.tasksMemo[id] = memoEntry[[]*types.Task]{key: key, length: len(session.Tasks), value: tasks, valid: true}
	return tasks
}

func (sel *Selectors) PaginationFor(id string) types.Pagination {
	session := sel.store.Snapshot().Session(id)
	if session == nil {
		return types.Pagination{}
	}
	return session.Pagination
}

// RecentProjects returns projects by lastOpened descending, bounded to n.
func (sel *Selectors) RecentProjects(n int) []*types.Project {
	projects := sel.store.Snapshot().Projects
	key := identity(projects)

	sel.mu.Lock()
	defer sel.mu.Unlock()
	if sel.recentMemo.valid && sel.recentMemo.key == key && sel.recentMemo.length == len(projects) && sel.recentN == n {
		return sel.recentMemo.value
	}
	sorted := make([]*types.Project, len(projects))
	copy(sorted, projects)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastOpened.After(sorted[j].LastOpened)
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	sel.recentMemo = memoEntry[[]*types.Project]{key: key, length: len(projects), value: sorted, valid: true}
	sel.recentN = n
	return sorted
}

// AvailableProjectPaths derives the distinct project paths, in list order.
func (sel *Selectors) AvailableProjectPaths() []string {
	projects := sel.store.Snapshot().Projects
	key := identity(projects)

	sel.mu.Lock()
	defer sel.mu.Unlock()
	if sel.pathsMemo.valid && sel.pathsMemo.key == key && sel.pathsMemo.length == len(projects) {
		return sel.pathsMemo.value
	}
	seen := make(map[string]struct{}, len(projects))
	paths := make([]string, 0, len(projects))
	for _, project := range projects {
		if _, dup := seen[project.Path]; dup {
			continue
		}
		seen[project.Path] = struct{}{}
		paths = append(paths, project.Path)
	}
	sel.pathsMemo = memoEntry[[]string]{key: key, length: len(projects), value: paths, valid: true}
	return paths
}

// OrphanEvents exposes the orphan-event counter for diagnostics.
func (sel *Selectors) OrphanEvents() int {
	return sel.store.Snapshot().OrphanEvents
}
