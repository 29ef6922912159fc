package history

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rubiojr/letterpress/pkg/search"
)

// Tab is one persisted history, with the same navigation as Stack.
type Tab struct {
	store *Store
	id    string
}

func (t *Tab) ID() string {
	return t.id
}

// Push adds an entry after the current one, dropping forward entries.
func (t *Tab) Push(snap search.Snapshot, url string) error {
	return t.write(snap, url, true)
}

// Replace overwrites the current entry, or adds the first one.
func (t *Tab) Replace(snap search.Snapshot, url string) error {
	return t.write(snap, url, false)
}

func (t *Tab) write(snap search.Snapshot, url string, push bool) error {
	blob, err := t.store.encode(snap)
	if err != nil {
		return err
	}

	tx, err := t.store.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				logger.Warnf("failed to rollback history transaction: %v", err)
			}
		}
	}()

	pos, err := position(tx, t.id)
	if err != nil {
		return err
	}

	idx := pos
	if push || pos < 0 {
		idx = pos + 1
		if _, err := tx.Exec("DELETE FROM entries WHERE tab_id = ? AND idx >= ?", t.id, idx); err != nil {
			return fmt.Errorf("dropping forward entries: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO entries (tab_id, idx, url, encoding, snapshot, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(tab_id, idx) DO UPDATE SET
			url = excluded.url,
			encoding = excluded.encoding,
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at
	`, t.id, idx, url, encodingZstd, blob)
	if err != nil {
		return fmt.Errorf("storing history entry: %w", err)
	}

	if err := setPosition(tx, t.id, idx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing history entry: %w", err)
	}
	committed = true
	logger.Debugf("tab %s: stored entry %d (%s, %d bytes)", t.id, idx, url, len(blob))
	return nil
}

func (t *Tab) Current() (Entry, error) {
	pos, err := position(t.store.db, t.id)
	if err != nil {
		return Entry{}, err
	}
	if pos < 0 {
		return Entry{}, ErrNoEntry
	}
	return t.entry(pos)
}

func (t *Tab) Back() (Entry, error) {
	return t.move(-1)
}

func (t *Tab) Forward() (Entry, error) {
	return t.move(1)
}

func (t *Tab) move(delta int) (Entry, error) {
	pos, err := position(t.store.db, t.id)
	if err != nil {
		return Entry{}, err
	}
	if pos < 0 {
		return Entry{}, ErrNoEntry
	}

	entry, err := t.entry(pos + delta)
	if err != nil {
		return Entry{}, err
	}
	if err := setPosition(t.store.db, t.id, entry.Index); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Entries returns every entry of the tab in order, and the index of the
// current one.
func (t *Tab) Entries() ([]Entry, int, error) {
	pos, err := position(t.store.db, t.id)
	if err != nil {
		return nil, 0, err
	}

	rows, err := t.store.db.Query(
		"SELECT idx, url, encoding, snapshot FROM entries WHERE tab_id = ? ORDER BY idx", t.id)
	if err != nil {
		return nil, 0, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			encoding string
			blob     []byte
		)
		if err := rows.Scan(&e.Index, &e.URL, &encoding, &blob); err != nil {
			return nil, 0, fmt.Errorf("scanning entry row: %w", err)
		}
		if e.Snapshot, err = t.store.decode(encoding, blob); err != nil {
			return nil, 0, fmt.Errorf("entry %d: %w", e.Index, err)
		}
		entries = append(entries, e)
	}
	return entries, pos, rows.Err()
}

func (t *Tab) entry(idx int) (Entry, error) {
	var (
		e        = Entry{Index: idx}
		encoding string
		blob     []byte
	)
	err := t.store.db.QueryRow(
		"SELECT url, encoding, snapshot FROM entries WHERE tab_id = ? AND idx = ?", t.id, idx,
	).Scan(&e.URL, &encoding, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNoEntry
	}
	if err != nil {
		return Entry{}, fmt.Errorf("loading entry %d: %w", idx, err)
	}
	if e.Snapshot, err = t.store.decode(encoding, blob); err != nil {
		return Entry{}, err
	}
	return e, nil
}

type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

func position(q queryer, id string) (int, error) {
	var pos int
	err := q.QueryRow("SELECT position FROM tabs WHERE id = ?", id).Scan(&pos)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrNoTab, id)
	}
	if err != nil {
		return 0, fmt.Errorf("loading tab position: %w", err)
	}
	return pos, nil
}

func setPosition(q queryer, id string, pos int) error {
	_, err := q.Exec("UPDATE tabs SET position = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", pos, id)
	if err != nil {
		return fmt.Errorf("updating tab position: %w", err)
	}
	return nil
}

var _ search.History = (*Tab)(nil)
