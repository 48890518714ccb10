package storage

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Backend persists the whole collection at once. Read returns an error
// wrapping os.ErrNotExist when nothing has been saved yet.
type Backend interface {
	Read() ([]Task, error)
	Write(tasks []Task) error
	Close() error
}

type LoadStatus int

const (
	LoadOK LoadStatus = iota
	LoadMissing
	LoadCorrupt
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadMissing:
		return "missing"
	case LoadCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

type Store struct {
	backend Backend
	logger  *log.Logger
	newID   func() string
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithIDFunc replaces uuid generation, mostly for tests.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

func New(b Backend, opts ...Option) *Store {
	s := &Store{
		backend: b,
		logger:  log.New(io.Discard),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open picks a backend by name and wraps it in a Store.
func Open(kind, path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("data path is empty")
	}
	var (
		b   Backend
		err error
	)
	switch kind {
	case "", BackendJSON:
		b = NewJSONFile(path)
	case BackendSQLite:
		b, err = OpenSQLite(path)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
	return New(b, opts...), nil
}

func (s *Store) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

// Load never fails: a missing or unreadable collection comes back empty and
// the status says why.
func (s *Store) Load() ([]Task, LoadStatus) {
	tasks, err := s.backend.Read()
	switch {
	case err == nil:
		if tasks == nil {
			tasks = []Task{}
		}
		s.logger.Debug("loaded tasks", "count", len(tasks))
		return tasks, LoadOK
	case isNotExist(err):
		s.logger.Debug("no saved tasks, starting empty")
		return []Task{}, LoadMissing
	default:
		s.logger.Warn("discarding unreadable tasks", "err", err)
		return []Task{}, LoadCorrupt
	}
}

func (s *Store) Save(tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	if err := s.backend.Write(tasks); err != nil {
		s.logger.Error("save failed", "err", err)
		return fmt.Errorf("save tasks: %w", err)
	}
	s.logger.Debug("saved tasks", "count", len(tasks))
	return nil
}

// Add creates a task with a fresh id and saves the result.
func (s *Store) Add(tasks []Task, d Draft) ([]Task, Outcome, error) {
	out, outcome := Add(tasks, d, s.uniqueID(tasks))
	return out, outcome, s.Save(out)
}

func (s *Store) Update(tasks []Task, id string, p Patch) ([]Task, Outcome, error) {
	out, outcome := Update(tasks, id, p)
	return out, outcome, s.Save(out)
}

func (s *Store) Remove(tasks []Task, id string) ([]Task, Outcome, error) {
	out, outcome := Remove(tasks, id)
	return out, outcome, s.Save(out)
}

func (s *Store) QueryByDate(tasks []Task, date string) []Task {
	return QueryByDate(tasks, date)
}

func (s *Store) uniqueID(tasks []Task) string {
	for i := 0; i < 8; i++ {
		id := s.newID()
		if id != "" && indexOf(tasks, id) < 0 {
			return id
		}
	}
	return uuid.NewString()
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
