package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func openTestStore(t *testing.T, kind string) (*Store, string) {
	t.Helper()
	name := "tasks.json"
	if kind == BackendSQLite {
		name = "tasks.db"
	}
	path := filepath.Join(t.TempDir(), name)
	s, err := Open(kind, path, WithIDFunc(counterIDs()))
	if err != nil {
		t.Fatalf("open %s store: %v", kind, err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestStoreRoundTrip(t *testing.T) {
	for _, kind := range []string{BackendJSON, BackendSQLite} {
		t.Run(kind, func(t *testing.T) {
			s, _ := openTestStore(t, kind)
			tasks := sampleTasks()
			if err := s.Save(tasks); err != nil {
				t.Fatalf("save: %v", err)
			}
			loaded, status := s.Load()
			if status != LoadOK {
				t.Fatalf("status %s", status)
			}
			if len(loaded) != len(tasks) {
				t.Fatalf("got %d tasks, want %d", len(loaded), len(tasks))
			}
			for i := range tasks {
				if loaded[i] != tasks[i] {
					t.Errorf("task %d: got %+v, want %+v", i, loaded[i], tasks[i])
				}
			}
		})
	}
}

func TestStoreLoadMissing(t *testing.T) {
	for _, kind := range []string{BackendJSON, BackendSQLite} {
		t.Run(kind, func(t *testing.T) {
			s, _ := openTestStore(t, kind)
			tasks, status := s.Load()
			if status != LoadMissing {
				t.Errorf("status %s, want missing", status)
			}
			if tasks == nil || len(tasks) != 0 {
				t.Errorf("expected empty non-nil slice, got %#v", tasks)
			}
		})
	}
}

func TestStoreLoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"garbage", "{not json"},
		{"object", `{"id": "1"}`},
		{"truncated", `[{"id": "1", "title": "x"`},
		{"bad id", `[{"id": true, "title": "x"}]`},
		{"null id", `[{"id": "1", "title": "ok"}, {"id": null, "title": "x"}]`},
		{"invalid utf-8", "[{\"id\": \"1\", \"title\": \"G\xffym\", \"category\": \"빨강\", \"date\": \"2026-01-20\", \"time\": \"09:00\"}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, path := openTestStore(t, BackendJSON)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			tasks, status := s.Load()
			if status != LoadCorrupt {
				t.Errorf("status %s, want corrupt", status)
			}
			if len(tasks) != 0 {
				t.Errorf("expected empty, got %+v", tasks)
			}
		})
	}
}

func TestStoreLoadNull(t *testing.T) {
	s, path := openTestStore(t, BackendJSON)
	if err := os.WriteFile(path, []byte("null"), 0o644); err != nil {
		t.Fatal(err)
	}
	tasks, status := s.Load()
	if status != LoadOK || tasks == nil || len(tasks) != 0 {
		t.Errorf("got %#v %s", tasks, status)
	}
}

func TestStoreMutationsPersist(t *testing.T) {
	for _, kind := range []string{BackendJSON, BackendSQLite} {
		t.Run(kind, func(t *testing.T) {
			s, _ := openTestStore(t, kind)
			tasks, _ := s.Load()

			tasks, outcome, err := s.Add(tasks, Draft{Title: "Gym", Category: "빨강", Date: "2026-01-20", Time: "09:00"})
			if err != nil || outcome != Applied {
				t.Fatalf("add: %s %v", outcome, err)
			}
			day := s.QueryByDate(tasks, "2026-01-20")
			if len(day) != 1 {
				t.Fatalf("expected 1 task on day, got %d", len(day))
			}
			gym := day[0]
			if gym.ID == "" || gym.Title != "Gym" || gym.Category != Red || gym.Time != "09:00" {
				t.Errorf("unexpected task %+v", gym)
			}

			tasks, outcome, err = s.Add(tasks, Draft{Title: "", Date: "2026-01-20", Time: "10:00"})
			if err != nil || outcome != Rejected || len(tasks) != 1 {
				t.Fatalf("empty add: %s %v len=%d", outcome, err, len(tasks))
			}

			tasks, _, _ = s.Add(tasks, Draft{Title: "Read", Category: Green, Date: "2026-01-20", Time: "21:00"})
			if tasks[0].ID == tasks[1].ID {
				t.Fatal("ids collide")
			}

			title := "Gym (legs)"
			tasks, outcome, err = s.Update(tasks, gym.ID, Patch{Title: &title})
			if err != nil || outcome != Applied {
				t.Fatalf("update: %s %v", outcome, err)
			}

			reloaded, _ := s.Load()
			if len(reloaded) != 2 || reloaded[0].Title != title || reloaded[1].Title != "Read" {
				t.Fatalf("reloaded %+v", reloaded)
			}

			tasks, outcome, err = s.Remove(tasks, gym.ID)
			if err != nil || outcome != Applied {
				t.Fatalf("remove: %s %v", outcome, err)
			}
			_, outcome, _ = s.Remove(tasks, gym.ID)
			if outcome != NotFound {
				t.Errorf("second remove: %s", outcome)
			}

			reloaded, _ = s.Load()
			if len(reloaded) != 1 || reloaded[0].Title != "Read" {
				t.Fatalf("after remove %+v", reloaded)
			}
		})
	}
}

func TestStoreUniqueIDRetries(t *testing.T) {
	ids := []string{"dup", "dup", "fresh"}
	i := 0
	s := New(NewJSONFile(filepath.Join(t.TempDir(), "t.json")), WithIDFunc(func() string {
		id := ids[i]
		i++
		return id
	}))
	tasks, _, err := s.Add(nil, Draft{Title: "a", Date: "2026-01-01", Time: "00:00"})
	if err != nil {
		t.Fatal(err)
	}
	tasks, _, err = s.Add(tasks, Draft{Title: "b", Date: "2026-01-01", Time: "00:00"})
	if err != nil {
		t.Fatal(err)
	}
	if tasks[1].ID != "fresh" {
		t.Errorf("expected retry to fresh id, got %q", tasks[1].ID)
	}
}

func TestJSONFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.json")
	f := NewJSONFile(path)
	tasks := []Task{{ID: "1", Title: "점심 <약속>", Category: Red, Date: "2026-01-20", Time: "12:00"}}
	if err := f.Write(tasks); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{
		`    {`,
		`"title": "점심 <약속>"`,
		`"category": "빨강"`,
		`"date": "2026-01-20"`,
		`"time": "12:00"`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestNumericIDsSurviveRewrite(t *testing.T) {
	s, path := openTestStore(t, BackendJSON)
	legacy := `[{"id": 1768900000.5, "title": "Old", "category": "보라", "date": "2026-01-20", "time": "08:00"}]`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}
	tasks, status := s.Load()
	if status != LoadOK || len(tasks) != 1 {
		t.Fatalf("load: %s %+v", status, tasks)
	}
	tasks, outcome, err := s.Remove(tasks, "1768900000.5")
	if err != nil || outcome != Applied || len(tasks) != 0 {
		t.Fatalf("remove legacy id: %s %v %+v", outcome, err, tasks)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("csv", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := Open(BackendJSON, ""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestUnknownCategoryRewrittenAsDefault(t *testing.T) {
	s, path := openTestStore(t, BackendJSON)
	content := `[{"id": "1", "title": "x", "category": "노랑", "date": "2026-01-20", "time": "09:00"}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	tasks, status := s.Load()
	if status != LoadOK || tasks[0].Category != DefaultCategory {
		t.Fatalf("load: %s %+v", status, tasks)
	}
	if err := s.Save(tasks); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "노랑") || !strings.Contains(string(data), `"category": "파랑"`) {
		t.Errorf("unexpected rewrite:\n%s", data)
	}
}

func TestSQLiteSchema(t *testing.T) {
	dir := t.TempDir()

	fresh, err := OpenSQLite(filepath.Join(dir, "fresh.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer fresh.Close()
	var cid int
	if err := fresh.db.QueryRow(`SELECT cid FROM pragma_table_info('tasks') WHERE name = 'category';`).Scan(&cid); err != nil {
		t.Fatalf("category column: %v", err)
	}
	if cid != 3 {
		t.Errorf("category should be created with the table, got column %d", cid)
	}

	legacyPath := filepath.Join(dir, "legacy.db")
	db, err := sql.Open("sqlite", sqliteDSN(legacyPath))
	if err != nil {
		t.Fatal(err)
	}
	_, err = db.Exec(`CREATE TABLE tasks (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	date TEXT NOT NULL,
	time TEXT NOT NULL
);`)
	db.Close()
	if err != nil {
		t.Fatal(err)
	}

	legacy, err := OpenSQLite(legacyPath)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	defer legacy.Close()
	want := []Task{{ID: "1", Title: "x", Category: Red, Date: "2026-01-20", Time: "09:00"}}
	if err := legacy.Write(want); err != nil {
		t.Fatalf("write after migrate: %v", err)
	}
	got, err := legacy.Read()
	if err != nil || len(got) != 1 || got[0] != want[0] {
		t.Errorf("read after migrate: %+v %v", got, err)
	}
}
