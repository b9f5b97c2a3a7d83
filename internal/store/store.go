// Package store holds the in-memory document and its mutators. Every
// successful mutation is announced to the registered observers, which is how
// the document reaches durable storage.
package store

import (
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/Joseda-hg/lazyplan/internal/metrics"
	"github.com/Joseda-hg/lazyplan/internal/model"
	"github.com/Joseda-hg/lazyplan/internal/views"
)

type Entity string

const (
	EntityWorkspace    Entity = "workspace"
	EntityProject      Entity = "project"
	EntityTask         Entity = "task"
	EntitySubtask      Entity = "subtask"
	EntityEvent        Entity = "event"
	EntityPersonalTask Entity = "personal_task"
	EntityDocument     Entity = "document"
)

type Op string

const (
	OpAdd       Op = "add"
	OpUpdate    Op = "update"
	OpDelete    Op = "delete"
	OpRecompute Op = "recompute"
	OpReplace   Op = "replace"
)

type Mutation struct {
	Entity Entity
	Op     Op
	ID     string
}

// Observer is told about each mutation along with a copy of the resulting
// document. Observers run while the store is locked and must not call back
// into it.
type Observer interface {
	Changed(m Mutation, doc model.Document)
}

type ObserverFunc func(m Mutation, doc model.Document)

func (f ObserverFunc) Changed(m Mutation, doc model.Document) {
	f(m, doc)
}

type Store struct {
	mu        sync.RWMutex
	doc       model.Document
	now       func() time.Time
	newID     func() string
	observers []Observer
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func WithObserver(observer Observer) Option {
	return func(s *Store) { s.observers = append(s.observers, observer) }
}

func New(doc model.Document, opts ...Option) *Store {
	s := &Store{
		doc:   doc.Normalize().Clone(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Subscribe(observer Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Today is the store clock's current date.
func (s *Store) Today() civil.Date {
	return civil.DateOf(s.now())
}

func (s *Store) Now() time.Time {
	return s.now()
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Replace swaps in a whole document, e.g. after a reset.
func (s *Store) Replace(doc model.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc.Normalize().Clone()
	s.notify(Mutation{Entity: EntityDocument, Op: OpReplace})
}

// RecomputeOverdue marks past-due items overdue and returns how many
// changed. Observers hear about it only when something changed.
func (s *Store) RecomputeOverdue(today civil.Date) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, changed := views.RecomputeOverdue(s.doc, today)
	if changed == 0 {
		return 0
	}
	s.doc = doc
	s.notify(Mutation{Entity: EntityDocument, Op: OpRecompute})
	return changed
}

func (s *Store) ProjectsByWorkspace(workspaceID string) []model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return views.ProjectsByWorkspace(s.doc.Projects, workspaceID)
}

func (s *Store) TasksByProject(projectID string) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Document{Tasks: views.TasksByProject(s.doc.Tasks, projectID)}.Clone().Tasks
}

func (s *Store) SubtasksByTask(taskID string) []model.Subtask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return views.SubtasksByTask(s.doc.Subtasks, taskID)
}

// notify must be called with s.mu held for writing.
func (s *Store) notify(m Mutation) {
	metrics.Mutations.WithLabelValues(string(m.Entity), string(m.Op)).Inc()
	if len(s.observers) == 0 {
		return
	}
	snapshot := s.doc.Clone()
	for _, observer := range s.observers {
		observer.Changed(m, snapshot)
	}
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
