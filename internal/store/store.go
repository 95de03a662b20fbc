// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists works, their verification checks, and their
// position metadata in a SQLite database keyed by work identity.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/refsys/pkg/types"
)

// Store manages the works database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the works database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS works (
			id TEXT PRIMARY KEY,
			title TEXT,
			type TEXT,
			container_title TEXT,
			issued_year INTEGER,
			doi TEXT,
			url TEXT,
			arxiv_id TEXT,
			pubmed_id TEXT,
			isbn TEXT,
			peer_reviewed INTEGER,
			retracted INTEGER DEFAULT 0,
			consensus_score INTEGER,
			raw_csl_json TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS authors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			family TEXT,
			given TEXT,
			UNIQUE(family, given)
		)`,
		`CREATE TABLE IF NOT EXISTS work_authors (
			work_id TEXT NOT NULL REFERENCES works(id) ON DELETE CASCADE,
			author_id INTEGER NOT NULL REFERENCES authors(id) ON DELETE CASCADE,
			ord INTEGER,
			PRIMARY KEY (work_id, author_id)
		)`,
		`CREATE TABLE IF NOT EXISTS checks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			work_id TEXT NOT NULL REFERENCES works(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			status TEXT NOT NULL,
			detail TEXT,
			http_code INTEGER,
			alternative_urls TEXT,
			checked_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS position (
			work_id TEXT PRIMARY KEY REFERENCES works(id) ON DELETE CASCADE,
			peer_reviewed INTEGER,
			citation_count INTEGER,
			is_review INTEGER,
			is_meta_analysis INTEGER,
			publication_type TEXT,
			year INTEGER,
			consensus_score INTEGER,
			updated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_works_doi ON works(doi)`,
		`CREATE INDEX IF NOT EXISTS idx_checks_work_id ON checks(work_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveWork upserts one record and its author links. The raw CSL JSON is
// kept alongside the projected columns so records round-trip losslessly.
func (s *Store) SaveWork(ctx context.Context, item *types.CSLItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshaling CSL record: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var peerReviewed any
	if item.PeerReviewed != nil {
		peerReviewed = *item.PeerReviewed
	}
	var score any
	if item.ConsensusScore != nil {
		score = *item.ConsensusScore
	}
	var year any
	if y := item.Year(); y != 0 {
		year = y
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO works (id, title, type, container_title, issued_year, doi, url,
			arxiv_id, pubmed_id, isbn, peer_reviewed, retracted, consensus_score, raw_csl_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, type=excluded.type, container_title=excluded.container_title,
			issued_year=excluded.issued_year, doi=excluded.doi, url=excluded.url,
			arxiv_id=excluded.arxiv_id, pubmed_id=excluded.pubmed_id, isbn=excluded.isbn,
			peer_reviewed=excluded.peer_reviewed, retracted=excluded.retracted,
			consensus_score=excluded.consensus_score, raw_csl_json=excluded.raw_csl_json,
			updated_at=CURRENT_TIMESTAMP`,
		item.ID, item.Title, item.Type, item.ContainerTitle, year,
		nullable(item.DOI), nullable(item.URL), nullable(item.ArxivID),
		nullable(item.PubMedID), nullable(item.ISBN),
		peerReviewed, item.Retracted, score, string(raw),
	)
	if err != nil {
		return fmt.Errorf("upserting work %s: %w", item.ID, err)
	}

	for ord, name := range item.Author {
		var authorID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO authors (family, given) VALUES (?, ?)
			 ON CONFLICT(family, given) DO UPDATE SET family=excluded.family
			 RETURNING id`,
			name.Family, name.Given,
		).Scan(&authorID)
		if err != nil {
			return fmt.Errorf("upserting author: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO work_authors (work_id, author_id, ord) VALUES (?, ?, ?)`,
			item.ID, authorID, ord,
		)
		if err != nil {
			return fmt.Errorf("linking author: %w", err)
		}
	}

	return tx.Commit()
}

// SaveReport appends the checks from one verification run. Earlier
// check rows are kept as history.
func (s *Store) SaveReport(ctx context.Context, workID string, rep *types.VerificationReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO checks (work_id, kind, status, detail, http_code, alternative_urls, checked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, res := range rep.Results() {
		altsJSON, _ := json.Marshal(res.AlternativeURLs)
		_, err := stmt.ExecContext(ctx,
			workID, string(res.Kind), string(res.Status), res.Detail,
			res.HTTPCode, string(altsJSON), res.CheckedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("inserting %s check: %w", res.Kind, err)
		}
	}

	return tx.Commit()
}

// SavePosition upserts the position metadata for a work and mirrors the
// consensus score onto the works row.
func (s *Store) SavePosition(ctx context.Context, workID string, meta types.PositionMetadata) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var peerReviewed any
	if meta.PeerReviewed != nil {
		peerReviewed = *meta.PeerReviewed
	}
	var year any
	if meta.Year != 0 {
		year = meta.Year
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO position (work_id, peer_reviewed, citation_count, is_review,
			is_meta_analysis, publication_type, year, consensus_score, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(work_id) DO UPDATE SET
			peer_reviewed=excluded.peer_reviewed, citation_count=excluded.citation_count,
			is_review=excluded.is_review, is_meta_analysis=excluded.is_meta_analysis,
			publication_type=excluded.publication_type, year=excluded.year,
			consensus_score=excluded.consensus_score, updated_at=excluded.updated_at`,
		workID, peerReviewed, meta.CitationCount, meta.IsReview,
		meta.IsMetaAnalysis, string(meta.PublicationType), year, meta.ConsensusScore,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting position for %s: %w", workID, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE works SET consensus_score = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		meta.ConsensusScore, workID,
	)
	if err != nil {
		return fmt.Errorf("updating work score: %w", err)
	}

	return tx.Commit()
}

// WorkRow is a summary row for listing.
type WorkRow struct {
	ID             string
	Title          string
	Type           string
	Year           int
	DOI            string
	Retracted      bool
	ConsensusScore *int
}

// ListWorks returns all stored works ordered by creation time.
func (s *Store) ListWorks(ctx context.Context) ([]WorkRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(title, ''), COALESCE(type, ''), COALESCE(issued_year, 0),
			COALESCE(doi, ''), retracted, consensus_score
		 FROM works ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("querying works: %w", err)
	}
	defer rows.Close()

	var out []WorkRow
	for rows.Next() {
		var w WorkRow
		var score sql.NullInt64
		if err := rows.Scan(&w.ID, &w.Title, &w.Type, &w.Year, &w.DOI, &w.Retracted, &score); err != nil {
			return nil, fmt.Errorf("scanning work row: %w", err)
		}
		if score.Valid {
			v := int(score.Int64)
			w.ConsensusScore = &v
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// GetWork returns the full CSL record for one work identity.
func (s *Store) GetWork(ctx context.Context, id string) (*types.CSLItem, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT raw_csl_json FROM works WHERE id = ?`, id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("work %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying work %s: %w", id, err)
	}

	var item types.CSLItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, fmt.Errorf("parsing stored record %s: %w", id, err)
	}
	return &item, nil
}

// GetWorks returns the full CSL records for all stored works.
func (s *Store) GetWorks(ctx context.Context) ([]*types.CSLItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT raw_csl_json FROM works ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("querying works: %w", err)
	}
	defer rows.Close()

	var out []*types.CSLItem
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning work row: %w", err)
		}
		var item types.CSLItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("parsing stored record: %w", err)
		}
		out = append(out, &item)
	}
	return out, rows.Err()
}

// nullable maps "" onto SQL NULL so unique and indexed columns do not
// collide on empty strings.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
