package db

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/Joseda-hg/lazyplan/internal/config"
	"github.com/Joseda-hg/lazyplan/internal/model"
)

func newSQLiteKV(t *testing.T) KV {
	t.Helper()
	sqlDB, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	kv := NewSQLiteKV(sqlDB)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func newBadgerKV(t *testing.T) KV {
	t.Helper()
	kv, err := OpenBadger(BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

var backends = []struct {
	name string
	open func(t *testing.T) KV
}{
	{"sqlite", newSQLiteKV},
	{"badger", newBadgerKV},
}

func TestKVReadWriteDelete(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			ctx := context.Background()
			kv := backend.open(t)

			if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
			}

			if err := kv.Set(ctx, "k", "one"); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := kv.Set(ctx, "k", "two"); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			value, ok, err := kv.Get(ctx, "k")
			if err != nil || !ok {
				t.Fatalf("get: ok=%v err=%v", ok, err)
			}
			if value != "two" {
				t.Fatalf("expected overwritten value, got %q", value)
			}

			if err := kv.Delete(ctx, "k"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, ok, _ := kv.Get(ctx, "k"); ok {
				t.Fatalf("expected key to be deleted")
			}
			if err := kv.Delete(ctx, "k"); err != nil {
				t.Fatalf("delete missing key: %v", err)
			}
		})
	}
}

func sampleDocument() model.Document {
	created := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	due := civil.Date{Year: 2024, Month: time.January, Day: 12}
	projectID := "p1"

	doc := model.Empty()
	doc.Workspaces = append(doc.Workspaces, model.Workspace{ID: "w1", Name: "Home", CreatedAt: created, UpdatedAt: created})
	doc.Projects = append(doc.Projects, model.Project{ID: projectID, WorkspaceID: "w1", Name: "Garden", Status: model.ProjectActive, CreatedAt: created, UpdatedAt: created})
	doc.Tasks = append(doc.Tasks, model.Task{
		ID:             "t1",
		ProjectID:      projectID,
		Title:          "Plant",
		Status:         model.TaskInProgress,
		Priority:       model.PriorityHigh,
		DueDate:        &due,
		RecurrenceType: model.RecurrenceWeekly,
		ShowInCalendar: true,
		Order:          1,
		CreatedAt:      created,
		UpdatedAt:      created,
	})
	doc.Subtasks = append(doc.Subtasks, model.Subtask{ID: "s1", TaskID: "t1", Title: "Dig", Status: model.SubtaskDone, Order: 1, CreatedAt: created})
	doc.Events = append(doc.Events,
		model.Event{ID: "e1", ProjectID: &projectID, Title: "Visit", StartDateTime: created, EndDateTime: created.Add(time.Hour), EventType: model.EventMeeting, CreatedAt: created},
		model.Event{ID: "e2", Title: "Dentist", StartDateTime: created, EndDateTime: created, EventType: model.EventReminder, CreatedAt: created},
	)
	doc.PersonalTasks = append(doc.PersonalTasks, model.PersonalTask{ID: "pt1", Title: "Call", Status: model.TaskTodo, Priority: model.PriorityLow, CreatedAt: created, UpdatedAt: created})
	return doc
}

func TestAdapterRoundTrip(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			ctx := context.Background()
			adapter := NewAdapter(backend.open(t), zerolog.Nop())

			doc := sampleDocument()
			adapter.Save(ctx, doc)
			loaded := adapter.Load(ctx)

			if !reflect.DeepEqual(doc, loaded) {
				t.Fatalf("round trip mismatch:\nsaved  %+v\nloaded %+v", doc, loaded)
			}
			if loaded.Events[1].ProjectID != nil {
				t.Fatalf("expected unattached event to stay unattached")
			}
		})
	}
}

func TestAdapterLoadsEmptyWhenMissing(t *testing.T) {
	adapter := NewAdapter(newSQLiteKV(t), zerolog.Nop())
	doc := adapter.Load(context.Background())
	if doc.Workspaces == nil || doc.PersonalTasks == nil {
		t.Fatalf("expected non-nil collections, got %+v", doc)
	}
	if len(doc.Tasks) != 0 {
		t.Fatalf("expected empty document")
	}
}

func TestAdapterLoadsEmptyWhenMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":      "{not json",
		"unknown enum":  `{"tasks":[{"id":"t1","status":"blocked"}]}`,
		"wrong shape":   `{"workspaces":{"id":"w1"}}`,
		"bad date":      `{"tasks":[{"id":"t1","due_date":"12/01/2024"}]}`,
		"bad datetime":  `{"events":[{"id":"e1","start_datetime":"10/01/2024 09:00"}]}`,
		"empty payload": ``,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := newSQLiteKV(t)
			if err := kv.Set(ctx, DataKey, raw); err != nil {
				t.Fatalf("seed: %v", err)
			}
			doc := NewAdapter(kv, zerolog.Nop()).Load(ctx)
			if !reflect.DeepEqual(doc, model.Empty()) {
				t.Fatalf("expected empty document, got %+v", doc)
			}
		})
	}
}

func TestAdapterFillsMissingCollections(t *testing.T) {
	ctx := context.Background()
	kv := newSQLiteKV(t)
	if err := kv.Set(ctx, DataKey, `{"workspaces":[{"id":"w1","name":"Home"}]}`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	doc := NewAdapter(kv, zerolog.Nop()).Load(ctx)
	if len(doc.Workspaces) != 1 || doc.Workspaces[0].Name != "Home" {
		t.Fatalf("expected the stored workspace, got %+v", doc.Workspaces)
	}
	if doc.Events == nil || doc.Subtasks == nil {
		t.Fatalf("expected absent collections to load as empty")
	}
}

func TestAdapterLoadsLocalEventTimes(t *testing.T) {
	ctx := context.Background()
	kv := newSQLiteKV(t)
	raw := `{
		"workspaces":[{"id":"w1","name":"Home","description":"","created_at":"2024-01-10T08:00:00.000Z","updated_at":"2024-01-10T08:00:00.000Z"}],
		"projects":[],"tasks":[],"subtasks":[],"personalTasks":[],
		"events":[
			{"id":"e1","project_id":null,"title":"Standup","description":"","start_datetime":"2024-01-10T09:00","end_datetime":"2024-01-10T09:30:00","event_type":"meeting","created_at":"2024-01-10T08:00:00.000Z"},
			{"id":"e2","project_id":"p1","title":"Review","description":"","start_datetime":"2024-01-11T14:00:00Z","end_datetime":"","event_type":"reminder","created_at":"2024-01-10T08:00:00.000Z"}
		]
	}`
	if err := kv.Set(ctx, DataKey, raw); err != nil {
		t.Fatalf("seed: %v", err)
	}

	doc := NewAdapter(kv, zerolog.Nop()).Load(ctx)
	if len(doc.Workspaces) != 1 || len(doc.Events) != 2 {
		t.Fatalf("expected the stored document, got %d workspaces and %d events", len(doc.Workspaces), len(doc.Events))
	}
	standup := doc.Events[0]
	if want := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.Local); !standup.StartDateTime.Equal(want) {
		t.Fatalf("expected local start %v, got %v", want, standup.StartDateTime)
	}
	if want := time.Date(2024, time.January, 10, 9, 30, 0, 0, time.Local); !standup.EndDateTime.Equal(want) {
		t.Fatalf("expected local end %v, got %v", want, standup.EndDateTime)
	}
	review := doc.Events[1]
	if want := time.Date(2024, time.January, 11, 14, 0, 0, 0, time.UTC); !review.StartDateTime.Equal(want) {
		t.Fatalf("expected UTC start %v, got %v", want, review.StartDateTime)
	}
	if !review.EndDateTime.IsZero() {
		t.Fatalf("expected an empty end to load as zero, got %v", review.EndDateTime)
	}
	if review.ProjectID == nil || *review.ProjectID != "p1" || review.EventType != model.EventReminder {
		t.Fatalf("expected the remaining fields to decode, got %+v", review)
	}
}

func TestAdapterSavesArraysNotNull(t *testing.T) {
	ctx := context.Background()
	kv := newSQLiteKV(t)
	NewAdapter(kv, zerolog.Nop()).Save(ctx, model.Document{})

	raw, ok, err := kv.Get(ctx, DataKey)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if strings.Contains(raw, "null") || !strings.Contains(raw, `"personalTasks":[]`) {
		t.Fatalf("expected empty arrays, got %s", raw)
	}
}

func TestAdapterUserRecord(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			ctx := context.Background()
			kv := backend.open(t)
			adapter := NewAdapter(kv, zerolog.Nop())

			if user := adapter.LoadUser(ctx); user != nil {
				t.Fatalf("expected no user, got %+v", user)
			}

			adapter.SaveUser(ctx, model.User{Username: "admin", IsLoggedIn: true})
			user := adapter.LoadUser(ctx)
			if user == nil || user.Username != "admin" || !user.IsLoggedIn {
				t.Fatalf("unexpected user %+v", user)
			}
			raw, _, _ := kv.Get(ctx, UserKey)
			if raw != `{"username":"admin","isLoggedIn":true}` {
				t.Fatalf("unexpected stored user %s", raw)
			}

			adapter.ClearUser(ctx)
			if user := adapter.LoadUser(ctx); user != nil {
				t.Fatalf("expected user cleared, got %+v", user)
			}
		})
	}
}

func TestAdapterMalformedUserIsLoggedOut(t *testing.T) {
	ctx := context.Background()
	kv := newSQLiteKV(t)
	if err := kv.Set(ctx, UserKey, "admin"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if user := NewAdapter(kv, zerolog.Nop()).LoadUser(ctx); user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}
}

func TestAdapterResetAll(t *testing.T) {
	ctx := context.Background()
	kv := newBadgerKV(t)
	adapter := NewAdapter(kv, zerolog.Nop())
	adapter.Save(ctx, sampleDocument())
	adapter.SaveUser(ctx, model.User{Username: "admin", IsLoggedIn: true})

	adapter.ResetAll(ctx)

	for _, key := range []string{DataKey, UserKey} {
		if _, ok, err := kv.Get(ctx, key); err != nil || ok {
			t.Fatalf("expected %s deleted, got ok=%v err=%v", key, ok, err)
		}
	}
	if doc := adapter.Load(ctx); len(doc.Workspaces) != 0 {
		t.Fatalf("expected empty document after reset")
	}
}

func TestOpenKVSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	sqliteKV, err := OpenKV(config.Config{Storage: config.StorageSQLite, DBPath: filepath.Join(dir, "lazyplan.db")})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer sqliteKV.Close()
	if _, ok := sqliteKV.(*SQLiteKV); !ok {
		t.Fatalf("expected sqlite backend, got %T", sqliteKV)
	}

	badgerKV, err := OpenKV(config.Config{Storage: config.StorageBadger, DBPath: filepath.Join(dir, "lazyplan.badger")})
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	defer badgerKV.Close()
	if _, ok := badgerKV.(*BadgerKV); !ok {
		t.Fatalf("expected badger backend, got %T", badgerKV)
	}

	if _, err := OpenKV(config.Config{Storage: "redis", DBPath: dir}); err == nil {
		t.Fatalf("expected unknown backend to fail")
	}
	if _, err := Open(""); err == nil {
		t.Fatalf("expected empty sqlite path to fail")
	}
	if _, err := OpenBadger(BadgerConfig{}); err == nil {
		t.Fatalf("expected empty badger path to fail")
	}
}

func TestSQLiteDataSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lazyplan.db")

	sqlDB, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	NewAdapter(NewSQLiteKV(sqlDB), zerolog.Nop()).Save(ctx, sampleDocument())
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	doc := NewAdapter(NewSQLiteKV(reopened), zerolog.Nop()).Load(ctx)
	if len(doc.Tasks) != 1 || doc.Tasks[0].Title != "Plant" {
		t.Fatalf("expected saved task after reopen, got %+v", doc.Tasks)
	}
}
