package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velmoney/velmo_app/internal/apperrors"
	"github.com/velmoney/velmo_app/internal/core/domain"
	portsrepo "github.com/velmoney/velmo_app/internal/core/ports/repositories"
	"github.com/velmoney/velmo_app/internal/models"
	"github.com/velmoney/velmo_app/internal/utils/mapping"
	"github.com/velmoney/velmo_app/internal/utils/pagination"
)

const transferColumns = `transfer_id, transfer_type, transfer_status, account_from_id, account_to_id, amount, created_at, created_by, completed_at`

type PgxTransferRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxTransferRepository creates a new repository for the transfer ledger.
// The account repository dependency supplies row locking and the balance
// mutation primitives used during settlement.
func newPgxTransferRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.TransferRepositoryWithTx {
	return &PgxTransferRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxTransferRepository implements portsrepo.TransferRepositoryWithTx
var _ portsrepo.TransferRepositoryWithTx = (*PgxTransferRepository)(nil)

// insertTransferTx inserts one transfer row inside an existing transaction.
// Shared with the account repository, which records sweep transfers when an
// account is soft deleted.
func insertTransferTx(ctx context.Context, tx pgx.Tx, m models.Transfer) error {
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := tx.Exec(ctx, query,
		m.TransferID,
		m.TransferType,
		m.Status,
		m.AccountFromID,
		m.AccountToID,
		m.Amount,
		m.CreatedAt,
		m.CreatedBy,
		m.CompletedAt,
	)
	if err != nil {
		return mapPgError(fmt.Errorf("failed to insert transfer %s: %w", m.TransferID, err))
	}
	return nil
}

func scanTransfer(row pgx.Row) (*models.Transfer, error) {
	var m models.Transfer
	err := row.Scan(
		&m.TransferID,
		&m.TransferType,
		&m.Status,
		&m.AccountFromID,
		&m.AccountToID,
		&m.Amount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateTransfer persists a new pending transfer.
func (r *PgxTransferRepository) CreateTransfer(ctx context.Context, transfer domain.Transfer) error {
	if err := transfer.Validate(); err != nil {
		return err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertTransferTx(ctx, tx, mapping.ToModelTransfer(transfer)); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SettleTransfer moves a pending transfer to the given terminal status,
// applying the balance movement when approving. The transfer row is locked
// first so settlement happens at most once; a transfer found in a terminal
// state yields ErrAlreadySettled and an approval that fails on funds leaves
// the transfer pending.
func (r *PgxTransferRepository) SettleTransfer(ctx context.Context, transferID string, finalStatus domain.TransferStatus, actorUserID string) (*domain.Transfer, error) {
	if !finalStatus.IsTerminal() {
		return nil, fmt.Errorf("%w: settlement status must be terminal, got %q", apperrors.ErrValidation, finalStatus)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `SELECT ` + transferColumns + ` FROM transfers WHERE transfer_id = $1 FOR UPDATE;`
	m, err := scanTransfer(tx.QueryRow(ctx, lockQuery, transferID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapPgError(fmt.Errorf("failed to lock transfer %s: %w", transferID, err))
	}

	transfer := mapping.ToDomainTransfer(*m)
	if !transfer.CanSettle() {
		return nil, fmt.Errorf("%w: transfer %s is already %s", apperrors.ErrAlreadySettled, transferID, transfer.Status)
	}

	now := time.Now().UTC()
	settled, err := r.settleLockedInTx(ctx, tx, transfer, finalStatus, actorUserID, now)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return settled, nil
}

// CreateAndSettleTransfer persists the transfer and settles it inside a single
// transaction, so a send or an own-account move is never observable pending.
func (r *PgxTransferRepository) CreateAndSettleTransfer(ctx context.Context, transfer domain.Transfer, finalStatus domain.TransferStatus) (*domain.Transfer, error) {
	if err := transfer.Validate(); err != nil {
		return nil, err
	}
	if !finalStatus.IsTerminal() {
		return nil, fmt.Errorf("%w: settlement status must be terminal, got %q", apperrors.ErrValidation, finalStatus)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	transfer.Status = domain.TransferStatusPending
	transfer.CompletedAt = nil
	if err := insertTransferTx(ctx, tx, mapping.ToModelTransfer(transfer)); err != nil {
		return nil, err
	}

	settled, err := r.settleLockedInTx(ctx, tx, transfer, finalStatus, transfer.CreatedBy, transfer.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return settled, nil
}

// settleLockedInTx applies the terminal transition to a transfer whose row is
// already locked (or invisible to others) in tx. Approval locks both accounts
// in ascending ID order, then debits before crediting; rejection touches no
// balances. The transfer row is updated last.
func (r *PgxTransferRepository) settleLockedInTx(ctx context.Context, tx pgx.Tx, transfer domain.Transfer, finalStatus domain.TransferStatus, actorUserID string, now time.Time) (*domain.Transfer, error) {
	if finalStatus == domain.TransferStatusApproved {
		accounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{transfer.AccountFromID, transfer.AccountToID})
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidAccount, err)
			}
			return nil, err
		}
		for _, id := range []string{transfer.AccountFromID, transfer.AccountToID} {
			if acc := accounts[id]; acc.IsDeleted {
				return nil, fmt.Errorf("%w: account %s is deleted", apperrors.ErrInvalidAccount, id)
			}
		}

		if err := r.accountRepo.DebitAccountInTx(ctx, tx, transfer.AccountFromID, transfer.Amount, actorUserID, now); err != nil {
			return nil, err
		}
		if err := r.accountRepo.CreditAccountInTx(ctx, tx, transfer.AccountToID, transfer.Amount, actorUserID, now); err != nil {
			return nil, err
		}
	}

	updateQuery := `
		UPDATE transfers
		SET transfer_status = $2, completed_at = $3
		WHERE transfer_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, transfer.TransferID, models.TransferStatus(finalStatus), now); err != nil {
		return nil, mapPgError(fmt.Errorf("failed to finalize transfer %s: %w", transfer.TransferID, err))
	}

	transfer.Status = finalStatus
	transfer.CompletedAt = &now
	return &transfer, nil
}

// FindTransferByID retrieves a transfer by its unique identifier.
func (r *PgxTransferRepository) FindTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE transfer_id = $1;`

	m, err := scanTransfer(r.Pool.QueryRow(ctx, query, transferID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapPgError(fmt.Errorf("failed to find transfer by ID %s: %w", transferID, err))
	}

	transfer := mapping.ToDomainTransfer(*m)
	return &transfer, nil
}

// ListTransfers retrieves transfers where the account participates on either
// side, newest first, with cursor pagination. The cursor encodes the last
// row's (created_at, transfer_id) pair so the ordering stays stable while new
// transfers arrive.
func (r *PgxTransferRepository) ListTransfers(ctx context.Context, filter portsrepo.ListTransfersFilter) ([]domain.Transfer, string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + transferColumns + ` FROM transfers WHERE (account_from_id = $1 OR account_to_id = $1)`
	args := []interface{}{filter.AccountID}

	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		query += fmt.Sprintf(" AND transfer_type = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND transfer_status = $%d", len(args))
	}
	if filter.NextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(filter.NextToken)
		if err != nil || len(fields) != 2 {
			return nil, "", fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		cursorCreatedAt, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, "", fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		args = append(args, cursorCreatedAt, fields[1])
		query += fmt.Sprintf(" AND (created_at, transfer_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, limit+1) // Fetch one extra row to detect another page.
	query += fmt.Sprintf(" ORDER BY created_at DESC, transfer_id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", mapPgError(fmt.Errorf("failed to query transfers for account %s: %w", filter.AccountID, err))
	}
	defer rows.Close()

	transfers := []domain.Transfer{}
	for rows.Next() {
		m, err := scanTransfer(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan transfer row: %w", err)
		}
		transfers = append(transfers, mapping.ToDomainTransfer(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating transfer rows: %w", err)
	}

	nextToken := ""
	if len(transfers) > limit {
		transfers = transfers[:limit]
		last := transfers[len(transfers)-1]
		nextToken = pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.TransferID)
	}

	return transfers, nextToken, nil
}
