// Package kb persists the merged knowledge base in a local SQLite
// database so successive runs accumulate knowledge. The store holds the
// same flat item records the merger produces; merge policy stays in the
// merge package; the store only loads prior state and saves merged
// state.
package kb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/gnosia/internal/model"
)

// Store wraps the SQLite knowledge base.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the knowledge base database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open knowledge base %s: %w", path, err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS items (
			hash TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			record TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_kind ON items(kind)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			generated_at TEXT NOT NULL,
			fact_count INTEGER NOT NULL,
			coherence REAL NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Load reads the persisted knowledge base as one collection, suitable
// for feeding into the merger alongside a fresh run.
func (s *Store) Load() (*model.KnowledgeBase, error) {
	rows, err := s.db.Query(`SELECT kind, record FROM items ORDER BY hash`)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}
	defer rows.Close()

	kb := &model.KnowledgeBase{}
	kb.Meta.Source = "kb:" + s.path

	for rows.Next() {
		var kind, record string
		if err := rows.Scan(&kind, &record); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		switch kind {
		case model.KindFact:
			var f model.Fact
			if err := json.Unmarshal([]byte(record), &f); err != nil {
				continue // corrupt row: skip, never abort
			}
			kb.Collections.Facts = append(kb.Collections.Facts, f)
		case model.KindPattern, model.KindAxiom, model.KindCrossReference:
			var it model.Item
			if err := json.Unmarshal([]byte(record), &it); err != nil {
				continue
			}
			switch kind {
			case model.KindPattern:
				kb.Collections.Patterns = append(kb.Collections.Patterns, it)
			case model.KindAxiom:
				kb.Collections.Axioms = append(kb.Collections.Axioms, it)
			default:
				kb.Collections.CrossReferences = append(kb.Collections.CrossReferences, it)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item rows: %w", err)
	}

	kb.CountItems()
	return kb, nil
}

// Save replaces the stored item set with the given (already merged)
// knowledge base and records the run.
func (s *Store) Save(kb *model.KnowledgeBase, coherence float64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO items (hash, kind, record, updated_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)

	insert := func(hash, kind string, record any) error {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal %s item: %w", kind, err)
		}
		if _, err := stmt.Exec(hash, kind, string(data), now); err != nil {
			return fmt.Errorf("insert %s item: %w", kind, err)
		}
		return nil
	}

	for i := range kb.Collections.Facts {
		f := &kb.Collections.Facts[i]
		if err := insert(f.Hash(), model.KindFact, f); err != nil {
			return err
		}
	}
	for kind, items := range map[string][]model.Item{
		model.KindPattern:        kb.Collections.Patterns,
		model.KindAxiom:          kb.Collections.Axioms,
		model.KindCrossReference: kb.Collections.CrossReferences,
	} {
		for i := range items {
			if err := insert(items[i].Hash(), kind, &items[i]); err != nil {
				return err
			}
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO runs (source, generated_at, fact_count, coherence) VALUES (?, ?, ?, ?)`,
		kb.Meta.Source, kb.Meta.GeneratedAt.UTC().Format(time.RFC3339), len(kb.Collections.Facts), coherence,
	); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	return tx.Commit()
}

// RunCount returns how many runs have been recorded.
func (s *Store) RunCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}
