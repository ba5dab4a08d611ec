// Package state persists the playback session across restarts: the queue
// contents, the cursor, and the shuffle/repeat flags. The shuffle order is
// never persisted; a restored session generates a fresh one when shuffle is
// next used.
package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "cadence"
	dbFileName   = "cadence.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db        *sql.DB
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *SessionState
}

// Open opens the state database at the default XDG data location.
func Open() (*Manager, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	return OpenAt(dbPath)
}

// OpenAt opens the state database at the given path, creating it and its
// parent directory if needed.
func OpenAt(dbPath string) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db}, nil
}

// Close flushes any pending debounced save and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending != nil {
		_ = saveSession(m.db, *pending)
	}

	return m.db.Close()
}

// GetSession returns the saved session, or nil when none has been saved.
func (m *Manager) GetSession() (*SessionState, error) {
	return getSession(m.db)
}

// SaveSession writes the session immediately.
func (m *Manager) SaveSession(s SessionState) error {
	return saveSession(m.db, s)
}

// SaveSessionDebounced schedules a session write, coalescing bursts of
// changes (track advances, rapid mode toggles) into one write.
func (m *Manager) SaveSessionDebounced(s SessionState) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &s

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			_ = saveSession(m.db, *pending)
		}
	})
}

// ClearSession removes the saved session.
func (m *Manager) ClearSession() error {
	return clearSession(m.db)
}
