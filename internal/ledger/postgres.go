package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS ledger_accounts (
    account_number BIGSERIAL PRIMARY KEY,
    holder_name    TEXT,
    balance        DOUBLE PRECISION
)`

// PostgresStore persists accounts in PostgreSQL. Identifiers come from the table's
// sequence, so they are assigned atomically and never reused after a delete.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed account store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the accounts table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure ledger schema: %w", err)
	}
	return nil
}

// Put inserts a new account or replaces the stored record with the same number.
func (s *PostgresStore) Put(ctx context.Context, account Account) (Account, error) {
	if account.ID == 0 {
		row := s.db.QueryRow(ctx, `INSERT INTO ledger_accounts (holder_name, balance)
        VALUES ($1, $2) RETURNING account_number`, account.HolderName, account.Balance)
		stored := account.clone()
		if err := row.Scan(&stored.ID); err != nil {
			return Account{}, fmt.Errorf("insert account: %w", err)
		}
		return stored, nil
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Account{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	tag, err := tx.Exec(ctx, `UPDATE ledger_accounts SET holder_name = $2, balance = $3
        WHERE account_number = $1`, account.ID, account.HolderName, account.Balance)
	if err != nil {
		return Account{}, fmt.Errorf("update account %d: %w", account.ID, err)
	}
	if tag.RowsAffected() == 0 {
		if err := insertExplicit(ctx, tx, account); err != nil {
			return Account{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Account{}, err
	}
	return account.clone(), nil
}

// insertExplicit stores a row under a caller-chosen number and moves the sequence
// past it. The table lock conflicts with the lock every INSERT takes before it draws
// from the sequence, so no nextval can run between the check and the setval.
func insertExplicit(ctx context.Context, tx pgx.Tx, account Account) error {
	if _, err := tx.Exec(ctx, `LOCK TABLE ledger_accounts IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock accounts: %w", err)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO ledger_accounts (account_number, holder_name, balance)
        VALUES ($1, $2, $3)
        ON CONFLICT (account_number) DO UPDATE SET holder_name = EXCLUDED.holder_name, balance = EXCLUDED.balance`,
		account.ID, account.HolderName, account.Balance); err != nil {
		return fmt.Errorf("insert account %d: %w", account.ID, err)
	}

	// only ever moves forward
	if _, err := tx.Exec(ctx, `SELECT setval('ledger_accounts_account_number_seq', $1::bigint)
        FROM ledger_accounts_account_number_seq
        WHERE last_value < $1::bigint OR (last_value = $1::bigint AND NOT is_called)`, account.ID); err != nil {
		return fmt.Errorf("advance account sequence: %w", err)
	}
	return nil
}

// GetByID fetches an account by number. A missing row yields found=false.
func (s *PostgresStore) GetByID(ctx context.Context, id int64) (Account, bool, error) {
	row := s.db.QueryRow(ctx, `SELECT account_number, holder_name, balance
        FROM ledger_accounts WHERE account_number = $1`, id)
	var a Account
	if err := row.Scan(&a.ID, &a.HolderName, &a.Balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, false, nil
		}
		return Account{}, false, fmt.Errorf("select account %d: %w", id, err)
	}
	return a, true, nil
}

// ListAll returns every account ordered by number.
func (s *PostgresStore) ListAll(ctx context.Context) ([]Account, error) {
	rows, err := s.db.Query(ctx, `SELECT account_number, holder_name, balance
        FROM ledger_accounts ORDER BY account_number`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]Account, 0)
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.HolderName, &a.Balance); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// DeleteByID removes the account row if present.
func (s *PostgresStore) DeleteByID(ctx context.Context, id int64) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM ledger_accounts WHERE account_number = $1`, id); err != nil {
		return fmt.Errorf("delete account %d: %w", id, err)
	}
	return nil
}

// ExistsByID reports whether an account with the given number is stored.
func (s *PostgresStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ledger_accounts WHERE account_number = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("account %d exists: %w", id, err)
	}
	return exists, nil
}

// Count returns the number of stored accounts.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}
