// Package sqlite is the durable store.Store variant. Records and seen
// hashes are written inside one transaction, so a batch becomes visible
// entirely or not at all.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/finsignal/bankfeed/pkg/bankfeed/internalerr"
	"github.com/finsignal/bankfeed/pkg/bankfeed/store"
)

type sqliteStore struct {
	db  *sql.DB
	log *logrus.Logger
}

// OpenSQLite opens (creating if needed) a SQLite-backed store with WAL mode
// enabled.
func OpenSQLite(ctx context.Context, path string, log *logrus.Logger) (store.Store, error) {
	if log == nil {
		log = logrus.New()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db, log: log}, nil
}

// Close closes the database connection.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS records (
	idx INTEGER PRIMARY KEY,
	platform TEXT NOT NULL,
	bank_name TEXT NOT NULL,
	post_text TEXT NOT NULL,
	category TEXT NOT NULL,
	sentiment_label TEXT NOT NULL,
	sentiment_score REAL NOT NULL,
	date TEXT NOT NULL,
	user_followers INTEGER NOT NULL DEFAULT 0,
	likes INTEGER NOT NULL DEFAULT 0,
	shares INTEGER NOT NULL DEFAULT 0,
	replies INTEGER NOT NULL DEFAULT 0,
	language TEXT NOT NULL,
	source_url TEXT,
	post_id TEXT NOT NULL,
	hash TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS seen_hashes (
	hash TEXT PRIMARY KEY
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Load reads the previous state in index order. Query failures are treated
// as corrupt state: logged, returned as empty, never fatal to the run.
func (s *sqliteStore) Load(ctx context.Context) (store.State, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		s.log.WithError(err).Warn("record table unreadable, starting from empty state")
		return store.State{Seen: map[string]struct{}{}}, nil
	}

	hashes, err := s.loadHashes(ctx)
	if err != nil {
		s.log.WithError(err).Warn("hash table unreadable, rebuilding from records")
		hashes = nil
	}

	return store.State{Records: records, Seen: store.SeenFrom(hashes, records)}, nil
}

func (s *sqliteStore) loadRecords(ctx context.Context) ([]store.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT idx, platform, bank_name, post_text, category, sentiment_label,
       sentiment_score, date, user_followers, likes, shares, replies,
       language, source_url, post_id, hash
FROM records ORDER BY idx`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []store.Record
	for rows.Next() {
		var r store.Record
		var sourceURL sql.NullString
		if err := rows.Scan(
			&r.Index, &r.Platform, &r.BankName, &r.PostText, &r.Category,
			&r.SentimentLabel, &r.SentimentScore, &r.Date, &r.UserFollowers,
			&r.Likes, &r.Shares, &r.Replies, &r.Language, &sourceURL,
			&r.PostID, &r.Hash,
		); err != nil {
			return nil, err
		}
		r.SourceURL = sourceURL.String
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *sqliteStore) loadHashes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT hash FROM seen_hashes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		hashes = append(hashes, h)
	}
	return hashes, rows.Err()
}

// AppendAndPersist writes the batch in a single transaction.
func (s *sqliteStore) AppendAndPersist(ctx context.Context, records []store.Record, hashes []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", internalerr.ErrPersistence, err)
	}
	defer tx.Rollback()

	recStmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (idx, platform, bank_name, post_text, category,
	sentiment_label, sentiment_score, date, user_followers, likes, shares,
	replies, language, source_url, post_id, hash)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare: %v", internalerr.ErrPersistence, err)
	}
	defer recStmt.Close()

	for _, r := range records {
		if _, err := recStmt.ExecContext(ctx,
			r.Index, r.Platform, r.BankName, r.PostText, r.Category,
			r.SentimentLabel, r.SentimentScore, r.Date, r.UserFollowers,
			r.Likes, r.Shares, r.Replies, r.Language, r.SourceURL,
			r.PostID, r.Hash,
		); err != nil {
			return fmt.Errorf("%w: insert record %d: %v", internalerr.ErrPersistence, r.Index, err)
		}
	}

	hashStmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO seen_hashes (hash) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare: %v", internalerr.ErrPersistence, err)
	}
	defer hashStmt.Close()

	for _, h := range hashes {
		if h == "" {
			continue
		}
		if _, err := hashStmt.ExecContext(ctx, h); err != nil {
			return fmt.Errorf("%w: insert hash: %v", internalerr.ErrPersistence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", internalerr.ErrPersistence, err)
	}
	return nil
}

// Clear deletes records and hashes in one transaction.
func (s *sqliteStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", internalerr.ErrPersistence, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("%w: clear records: %v", internalerr.ErrPersistence, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM seen_hashes`); err != nil {
		return fmt.Errorf("%w: clear hashes: %v", internalerr.ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", internalerr.ErrPersistence, err)
	}
	return nil
}

// Status reports stored volume.
func (s *sqliteStore) Status(ctx context.Context) (store.Status, error) {
	var st store.Status
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&st.Records); err != nil {
		return store.Status{}, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seen_hashes`).Scan(&st.Hashes); err != nil {
		return store.Status{}, err
	}
	return st, nil
}
