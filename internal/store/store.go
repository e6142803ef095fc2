// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/tuimorse/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is a fixed-width UTC layout so stored timestamps sort and
// compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Store wraps SQLite access for completed words.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS words (
			id INTEGER PRIMARY KEY,
			run_id TEXT NOT NULL,
			word TEXT NOT NULL,
			mode TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			attempts INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS word_char_stats (
			word_id INTEGER NOT NULL,
			char TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			PRIMARY KEY (word_id, char)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_words_ended_at ON words(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_words_run_id ON words(run_id);`,
		`CREATE INDEX IF NOT EXISTS idx_word_char_stats_char ON word_char_stats(char);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertWord stores a completed word and its per-character stats.
func (s *Store) InsertWord(ctx context.Context, result model.WordResult, chars []model.CharStats) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO words (run_id, word, mode, started_at, ended_at, elapsed_ms, attempts)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.Word,
		result.Mode,
		formatTime(result.StartedAt),
		formatTime(result.EndedAt),
		result.ElapsedMs,
		result.Attempts,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(chars) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO word_char_stats (word_id, char, correct, incorrect)
			 VALUES (?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, cs := range chars {
			if _, err = stmt.ExecContext(ctx, id, cs.Char, cs.Correct, cs.Incorrect); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetWeakChars aggregates character stats over the most recent words.
func (s *Store) GetWeakChars(ctx context.Context, window int) ([]model.CharAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_words AS (
		SELECT id FROM words
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT cs.char, SUM(cs.correct) AS correct, SUM(cs.incorrect) AS incorrect
	FROM word_char_stats cs
	JOIN recent_words r ON r.id = cs.word_id
	GROUP BY cs.char`

	rows, err := s.db.QueryContext(ctx, query, window)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	return scanCharAggregates(rows)
}

// ListWords returns stored words filtered by stats config, oldest first.
func (s *Store) ListWords(ctx context.Context, cfg model.StatsConfig) ([]model.WordAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Word != "" {
		clauses = append(clauses, "word = ?")
		args = append(args, strings.ToLower(cfg.Word))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	query := fmt.Sprintf(`SELECT id, word, mode, ended_at, elapsed_ms, attempts
		FROM words
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var words []model.WordAggregate
	for rows.Next() {
		var agg model.WordAggregate
		var endedAt string
		if err := rows.Scan(&agg.WordID, &agg.Word, &agg.Mode, &endedAt, &agg.ElapsedMs, &agg.Attempts); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		words = append(words, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// ListCharAggregatesForWords aggregates per-character stats across words.
func (s *Store) ListCharAggregatesForWords(ctx context.Context, wordIDs []int64) ([]model.CharAggregate, error) {
	if len(wordIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(wordIDs))
	args := make([]any, len(wordIDs))
	for i, id := range wordIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT char, SUM(correct) AS correct, SUM(incorrect) AS incorrect
		FROM word_char_stats
		WHERE word_id IN (%s)
		GROUP BY char`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	return scanCharAggregates(rows)
}

// CountRuns returns the number of distinct practice runs with stored words.
func (s *Store) CountRuns(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT run_id) FROM words`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanCharAggregates(rows *sql.Rows) ([]model.CharAggregate, error) {
	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Correct, &agg.Incorrect); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
