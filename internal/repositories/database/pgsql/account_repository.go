package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/velmoney/velmo_app/internal/apperrors"
	"github.com/velmoney/velmo_app/internal/core/domain"
	portsrepo "github.com/velmoney/velmo_app/internal/core/ports/repositories"
	"github.com/velmoney/velmo_app/internal/models"
	"github.com/velmoney/velmo_app/internal/utils/mapping"
)

const accountColumns = `account_id, user_id, balance, is_primary, is_deleted, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryWithTx
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.Balance,
		&m.IsPrimary,
		&m.IsDeleted,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindAccountByID retrieves an account by its ID. Soft-deleted accounts are
// reported as not found.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND is_deleted = FALSE;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapPgError(fmt.Errorf("failed to find account by ID %s: %w", accountID, err))
	}

	domainAcc := mapping.ToDomainAccount(*m)
	return &domainAcc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs, deleted ones included.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, mapPgError(fmt.Errorf("failed to query accounts by IDs: %w", err))
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row during batch fetch: %w", err)
		}
		accountsMap[m.AccountID] = mapping.ToDomainAccount(*m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows during batch fetch: %w", err)
	}

	return accountsMap, nil
}

// ListAccountsByUser retrieves the user's non-deleted accounts ordered by account ID.
func (r *PgxAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND is_deleted = FALSE
		ORDER BY account_id;
	`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, mapPgError(fmt.Errorf("failed to query accounts for user %s: %w", userID, err))
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row for user %s: %w", userID, err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(*m))
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows for user %s: %w", userID, rows.Err())
	}

	return accounts, nil
}

// FindPrimaryAccountByUser retrieves the user's primary account.
func (r *PgxAccountRepository) FindPrimaryAccountByUser(ctx context.Context, userID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND is_primary = TRUE AND is_deleted = FALSE;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapPgError(fmt.Errorf("failed to find primary account for user %s: %w", userID, err))
	}

	domainAcc := mapping.ToDomainAccount(*m)
	return &domainAcc, nil
}

// lockOwnerAccounts locks all of the owner's account rows, serializing
// per-owner operations (create, set-primary, soft-delete) against each other.
// Returns the owner's accounts, deleted ones included, keyed by ID.
func (r *PgxAccountRepository) lockOwnerAccounts(ctx context.Context, tx pgx.Tx, userID string) (map[string]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1
		ORDER BY account_id
		FOR UPDATE;
	`

	rows, err := tx.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts of user %s: %w", userID, err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}
	return accounts, nil
}

// SaveAccount persists a new account. The owner's rows are locked first so
// concurrent creations for the same owner serialize; when the owner has no
// live accounts the new account is forced primary.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	existing, err := r.lockOwnerAccounts(ctx, tx, account.UserID)
	if err != nil {
		return nil, mapPgError(err)
	}

	hasLive := false
	for _, acc := range existing {
		if !acc.IsDeleted {
			hasLive = true
			break
		}
	}
	if !hasLive {
		account.IsPrimary = true
	}

	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.Balance,
		m.IsPrimary,
		m.IsDeleted,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(fmt.Errorf("failed to save account %s: %w", m.AccountID, err))
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &account, nil
}

// SetPrimaryAccount atomically clears the owner's current primary flag and
// sets it on the given account.
func (r *PgxAccountRepository) SetPrimaryAccount(ctx context.Context, userID string, accountID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	accounts, err := r.lockOwnerAccounts(ctx, tx, userID)
	if err != nil {
		return mapPgError(err)
	}

	target, ok := accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: account %s does not belong to user %s", apperrors.ErrNotFound, accountID, userID)
	}
	if target.IsDeleted {
		return fmt.Errorf("%w: account %s is deleted", apperrors.ErrInvalidAccount, accountID)
	}
	if target.IsPrimary {
		return nil // Already primary, nothing to do.
	}

	clearQuery := `
		UPDATE accounts
		SET is_primary = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $1 AND is_primary = TRUE;
	`
	if _, err := tx.Exec(ctx, clearQuery, userID, now, userID); err != nil {
		return fmt.Errorf("failed to clear primary flag for user %s: %w", userID, err)
	}

	setQuery := `
		UPDATE accounts
		SET is_primary = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1;
	`
	if _, err := tx.Exec(ctx, setQuery, accountID, now, userID); err != nil {
		return fmt.Errorf("failed to set primary flag on account %s: %w", accountID, err)
	}

	return r.Commit(ctx, tx)
}

// SoftDeleteAccount marks the account deleted. A remaining balance is swept
// into the owner's primary account and the sweep is recorded as a completed
// account-move transfer, all inside one transaction. The primary account
// itself cannot be deleted.
func (r *PgxAccountRepository) SoftDeleteAccount(ctx context.Context, userID string, accountID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	accounts, err := r.lockOwnerAccounts(ctx, tx, userID)
	if err != nil {
		return mapPgError(err)
	}

	target, ok := accounts[accountID]
	if !ok || target.IsDeleted {
		return fmt.Errorf("%w: account %s does not belong to user %s", apperrors.ErrNotFound, accountID, userID)
	}
	if target.IsPrimary {
		return fmt.Errorf("%w: the primary account cannot be deleted", apperrors.ErrConflict)
	}

	var primary *domain.Account
	for id := range accounts {
		acc := accounts[id]
		if acc.IsPrimary && !acc.IsDeleted {
			primary = &acc
			break
		}
	}
	if primary == nil {
		// Every live owner must have a primary account.
		slog.ErrorContext(ctx, "integrity violation: user has no primary account", "user_id", userID)
		return fmt.Errorf("%w: no primary account for user %s", apperrors.ErrNotFound, userID)
	}

	if target.Balance.IsPositive() {
		if err := r.DebitAccountInTx(ctx, tx, target.AccountID, target.Balance, userID, now); err != nil {
			return err
		}
		if err := r.CreditAccountInTx(ctx, tx, primary.AccountID, target.Balance, userID, now); err != nil {
			return err
		}
		sweep := models.Transfer{
			TransferID:    uuid.NewString(),
			TransferType:  models.TransferType(domain.TransferTypeAccountMove),
			Status:        models.TransferStatus(domain.TransferStatusApproved),
			AccountFromID: target.AccountID,
			AccountToID:   primary.AccountID,
			Amount:        target.Balance,
			CreatedAt:     now,
			CreatedBy:     userID,
			CompletedAt:   &now,
		}
		if err := insertTransferTx(ctx, tx, sweep); err != nil {
			return err
		}
	}

	deleteQuery := `
		UPDATE accounts
		SET is_deleted = TRUE, balance = 0, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1;
	`
	if _, err := tx.Exec(ctx, deleteQuery, accountID, now, userID); err != nil {
		return fmt.Errorf("failed to soft delete account %s: %w", accountID, err)
	}

	return r.Commit(ctx, tx)
}

// FindAccountsByIDsForUpdate selects accounts and locks them for update within
// a transaction. Rows are locked in ascending account ID order so concurrent
// settlements touching the same pair cannot deadlock.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	sorted := make([]string, len(accountIDs))
	copy(sorted, accountIDs)
	sort.Strings(sorted)

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`

	rows, err := tx.Query(ctx, query, sorted)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs for update: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accountsMap[m.AccountID] = mapping.ToDomainAccount(*m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	if len(accountsMap) != len(sorted) {
		missing := []string{}
		for _, id := range sorted {
			if _, found := accountsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}

	return accountsMap, nil
}

// DebitAccountInTx subtracts amount from the account balance within a
// transaction. The guard on balance keeps the non-negativity invariant inside
// the database itself.
func (r *PgxAccountRepository) DebitAccountInTx(ctx context.Context, tx pgx.Tx, accountID string, amount decimal.Decimal, userID string, now time.Time) error {
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}

	query := `
		UPDATE accounts
		SET balance = balance - $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1 AND is_deleted = FALSE AND balance >= $2;
	`
	ct, err := tx.Exec(ctx, query, accountID, amount, now, userID)
	if err != nil {
		return mapPgError(fmt.Errorf("failed to debit account %s: %w", accountID, err))
	}
	if ct.RowsAffected() == 0 {
		// Distinguish a missing/deleted account from a short balance.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE account_id = $1 AND is_deleted = FALSE)`, accountID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check account %s after debit: %w", accountID, err)
		}
		if !exists {
			return fmt.Errorf("%w: account %s", apperrors.ErrInvalidAccount, accountID)
		}
		return fmt.Errorf("%w: account %s cannot cover %s", apperrors.ErrInsufficientFunds, accountID, amount.String())
	}
	return nil
}

// CreditAccountInTx adds amount to the account balance within a transaction.
func (r *PgxAccountRepository) CreditAccountInTx(ctx context.Context, tx pgx.Tx, accountID string, amount decimal.Decimal, userID string, now time.Time) error {
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}

	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1 AND is_deleted = FALSE;
	`
	ct, err := tx.Exec(ctx, query, accountID, amount, now, userID)
	if err != nil {
		return mapPgError(fmt.Errorf("failed to credit account %s: %w", accountID, err))
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrInvalidAccount, accountID)
	}
	return nil
}
