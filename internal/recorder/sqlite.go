package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"rewardpool/internal/model"
)

// SQLiteRecorder persists ledger history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read while the service writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS investments (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			account       TEXT NOT NULL,
			amount        INTEGER NOT NULL,
			fee           INTEGER NOT NULL,
			balance_after INTEGER NOT NULL,
			reserve_after INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_investments_ts ON investments(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_investments_account ON investments(account)`,

		`CREATE TABLE IF NOT EXISTS withdrawals (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			account     TEXT NOT NULL,
			destination TEXT NOT NULL,
			amount      INTEGER NOT NULL,
			reference   TEXT NOT NULL,
			transfer_ok INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_withdrawals_ts ON withdrawals(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_withdrawals_account ON withdrawals(account)`,

		`CREATE TABLE IF NOT EXISTS pool_snapshots (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			reserve         INTEGER NOT NULL,
			total_principal INTEGER NOT NULL,
			apr             INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON pool_snapshots(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordInvestment(evt *model.InvestedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO investments
		(timestamp, account, amount, fee, balance_after, reserve_after)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Account, evt.Amount, evt.Fee,
		evt.NewBalance, evt.ReserveAfter,
	)
	return err
}

func (r *SQLiteRecorder) RecordWithdrawal(evt *model.WithdrawnEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	transferOK := 0
	if evt.TransferOK {
		transferOK = 1
	}
	_, err := r.db.Exec(`INSERT INTO withdrawals
		(timestamp, account, destination, amount, reference, transfer_ok)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Account, evt.Destination, evt.Amount,
		evt.Reference, transferOK,
	)
	return err
}

func (r *SQLiteRecorder) RecordSnapshot(snap *model.PoolSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO pool_snapshots
		(timestamp, reserve, total_principal, apr)
		VALUES (?,?,?,?)`,
		time.Now().Unix(), snap.Reserve, snap.TotalPrincipal, snap.APR,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
