package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"FundSentinel/internal/model"
)

// SQLiteLedger persists signal entries to a SQLite database. Durability
// across restarts is what makes repeated polling safe: the upstream source
// may re-emit the same observation after a crash.
type SQLiteLedger struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteLedger opens (or creates) the database and runs migrations.
func NewSQLiteLedger(dbPath string, log zerolog.Logger) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so audit reads don't block the cycle's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	l := &SQLiteLedger{db: db, log: log.With().Str("component", "ledger").Logger()}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	l.log.Info().Str("path", dbPath).Msg("signal ledger opened")
	return l, nil
}

func (l *SQLiteLedger) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signal_ledger (
			signal_id         TEXT PRIMARY KEY,
			processed_at      INTEGER NOT NULL,
			action_taken      INTEGER NOT NULL,
			submitted_weights TEXT NOT NULL,
			tx_reference      TEXT,
			fallback_applied  INTEGER NOT NULL DEFAULT 0,
			rationale         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_processed_at ON signal_ledger(processed_at)`,
	}
	for _, s := range stmts {
		if _, err := l.db.Exec(s); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

func (l *SQLiteLedger) HasProcessed(ctx context.Context, signalID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var one int
	err := l.db.QueryRowContext(ctx,
		`SELECT 1 FROM signal_ledger WHERE signal_id = ?`, signalID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query signal %s: %w", signalID, err)
	}
	return true, nil
}

func (l *SQLiteLedger) Record(ctx context.Context, entry *model.LedgerEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	processedAt := entry.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now()
	}

	// ON CONFLICT DO NOTHING keeps the insert atomic: the row count tells
	// us whether this caller won, without a read-then-write window.
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO signal_ledger
			(signal_id, processed_at, action_taken, submitted_weights, tx_reference, fallback_applied, rationale)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(signal_id) DO NOTHING`,
		entry.SignalID, processedAt.Unix(), boolToInt(entry.ActionTaken),
		encodeWeights(entry.SubmittedWeights), entry.TxRef,
		boolToInt(entry.FallbackApplied), entry.Rationale,
	)
	if err != nil {
		return fmt.Errorf("record signal %s: %w", entry.SignalID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record signal %s: %w", entry.SignalID, err)
	}
	if n == 0 {
		return fmt.Errorf("record signal %s: %w", entry.SignalID, model.ErrDuplicateSignal)
	}
	return nil
}

func (l *SQLiteLedger) Entries(ctx context.Context, limit int) ([]model.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.db.QueryContext(ctx,
		`SELECT signal_id, processed_at, action_taken, submitted_weights, tx_reference, fallback_applied, rationale
		FROM signal_ledger ORDER BY processed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []model.LedgerEntry
	for rows.Next() {
		var (
			e           model.LedgerEntry
			processedAt int64
			action      int
			weights     string
			txRef       sql.NullString
			fallback    int
			rationale   sql.NullString
		)
		if err := rows.Scan(&e.SignalID, &processedAt, &action, &weights, &txRef, &fallback, &rationale); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.ProcessedAt = time.Unix(processedAt, 0)
		e.ActionTaken = action != 0
		e.FallbackApplied = fallback != 0
		e.TxRef = txRef.String
		e.Rationale = rationale.String
		w, err := decodeWeights(weights)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.SignalID, err)
		}
		e.SubmittedWeights = w
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (l *SQLiteLedger) Close() error {
	l.log.Info().Msg("closing signal ledger")
	return l.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func encodeWeights(w model.WeightVector) string {
	parts := make([]string, len(w))
	for i, v := range w {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, ",")
}

func decodeWeights(s string) (model.WeightVector, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	w := make(model.WeightVector, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode weights %q: %w", s, err)
		}
		w[i] = v
	}
	return w, nil
}
