package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/rubiojr/letterpress/pkg/db"
	"github.com/rubiojr/letterpress/pkg/log"
	"github.com/rubiojr/letterpress/pkg/search"
)

var ErrNoTab = errors.New("history tab not found")

const encodingZstd = "zstd"

var logger = log.ForService("history")

// Store is the sqlite backed history.
type Store struct {
	db      *sql.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// TabInfo summarizes a stored tab.
type TabInfo struct {
	ID        string
	Position  int
	Entries   int
	UpdatedAt time.Time
}

// Open opens (creating if needed) the history database at dbPath and
// migrates it to the current schema.
func Open(dbPath string) (*Store, error) {
	conn, err := OpenDB(dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.InitializeDatabase(conn); err != nil {
		conn.Close()
		return nil, err
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}

	return &Store{db: conn, encoder: encoder, decoder: decoder}, nil
}

// OpenDB opens the history database without migrating it.
func OpenDB(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA temp_store = memory",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}
	return conn, nil
}

func (s *Store) Close() error {
	s.decoder.Close()
	if err := s.encoder.Close(); err != nil {
		logger.Warnf("closing zstd encoder: %v", err)
	}
	return s.db.Close()
}

// GetDB returns the underlying connection for migrations.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// NewTab starts an empty history tab.
func (s *Store) NewTab() (*Tab, error) {
	id := uuid.NewString()
	if _, err := s.db.Exec("INSERT INTO tabs (id) VALUES (?)", id); err != nil {
		return nil, fmt.Errorf("creating tab: %w", err)
	}
	logger.Debugf("created tab %s", id)
	return &Tab{store: s, id: id}, nil
}

// Tab opens an existing tab.
func (s *Store) Tab(id string) (*Tab, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM tabs WHERE id = ?", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoTab, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading tab %s: %w", id, err)
	}
	return &Tab{store: s, id: id}, nil
}

// LatestTab returns the most recently updated tab.
func (s *Store) LatestTab() (*Tab, error) {
	var id string
	err := s.db.QueryRow("SELECT id FROM tabs ORDER BY updated_at DESC, rowid DESC LIMIT 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoTab
	}
	if err != nil {
		return nil, fmt.Errorf("loading latest tab: %w", err)
	}
	return &Tab{store: s, id: id}, nil
}

// Tabs lists tabs, most recently updated first.
func (s *Store) Tabs() ([]TabInfo, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.position, COUNT(e.idx), t.updated_at
		FROM tabs t LEFT JOIN entries e ON e.tab_id = t.id
		GROUP BY t.id
		ORDER BY t.updated_at DESC, t.rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing tabs: %w", err)
	}
	defer rows.Close()

	var tabs []TabInfo
	for rows.Next() {
		var info TabInfo
		if err := rows.Scan(&info.ID, &info.Position, &info.Entries, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning tab row: %w", err)
		}
		tabs = append(tabs, info)
	}
	return tabs, rows.Err()
}

// DeleteTab removes a tab and its entries.
func (s *Store) DeleteTab(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// PRAGMA foreign_keys only covers the connection it ran on.
	if _, err := tx.Exec("DELETE FROM entries WHERE tab_id = ?", id); err != nil {
		return fmt.Errorf("deleting entries of tab %s: %w", id, err)
	}
	res, err := tx.Exec("DELETE FROM tabs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting tab %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNoTab, id)
	}
	return tx.Commit()
}

func (s *Store) encode(snap search.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}
	return s.encoder.EncodeAll(data, nil), nil
}

func (s *Store) decode(encoding string, blob []byte) (search.Snapshot, error) {
	var snap search.Snapshot
	data := blob
	switch encoding {
	case encodingZstd:
		var err error
		data, err = s.decoder.DecodeAll(blob, nil)
		if err != nil {
			return snap, fmt.Errorf("decompressing snapshot: %w", err)
		}
	case "", "json":
	default:
		return snap, fmt.Errorf("unknown snapshot encoding %q", encoding)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("unmarshaling snapshot: %w", err)
	}
	return snap, nil
}
