package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLite stores the collection in a tasks table. seq preserves insertion
// order; the date index serves day lookups from other tools.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(dbPath string) (*SQLite, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) ensureSchema() error {
	const tasksDDL = `
CREATE TABLE IF NOT EXISTS tasks (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	date TEXT NOT NULL,
	time TEXT NOT NULL
);`
	const metaDDL = `
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`
	for _, ddl := range []string{tasksDDL, metaDDL} {
		if _, err := s.db.Exec(ddl); err != nil {
			return err
		}
	}
	if err := s.ensureTaskColumns(); err != nil {
		return err
	}
	_, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS tasks_date ON tasks(date);`)
	return err
}

func (s *SQLite) ensureTaskColumns() error {
	required := map[string]string{
		"category": "ALTER TABLE tasks ADD COLUMN category TEXT NOT NULL DEFAULT '';",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(tasks);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

// Read reports os.ErrNotExist until the first Write, matching a missing JSON
// file.
func (s *SQLite) Read() ([]Task, error) {
	var saved string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'saved';`).Scan(&saved)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite tasks: %w", os.ErrNotExist)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT id, title, category, date, time FROM tasks ORDER BY seq;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		var t Task
		var category string
		if err := rows.Scan(&t.ID, &t.Title, &category, &t.Date, &t.Time); err != nil {
			return nil, err
		}
		t.Category = ParseCategory(category)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Write swaps the whole table inside one transaction.
func (s *SQLite) Write(tasks []Task) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM tasks;`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO tasks (id, title, category, date, time) VALUES (?, ?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, t := range tasks {
		if _, err = stmt.Exec(t.ID, t.Title, string(t.Category), t.Date, t.Time); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}
	if _, err = tx.Exec(`INSERT INTO meta (key, value) VALUES ('saved', '1') ON CONFLICT(key) DO NOTHING;`); err != nil {
		return err
	}
	return tx.Commit()
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
