package mapping

import (
	"github.com/velmoney/velmo_app/internal/core/domain"
	"github.com/velmoney/velmo_app/internal/models"
)

// ToModelTransfer converts a domain Transfer to a model Transfer
func ToModelTransfer(d domain.Transfer) models.Transfer {
	return models.Transfer{
		TransferID:    d.TransferID,
		TransferType:  models.TransferType(d.Type),
		Status:        models.TransferStatus(d.Status),
		AccountFromID: d.AccountFromID,
		AccountToID:   d.AccountToID,
		Amount:        d.Amount,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		CompletedAt:   d.CompletedAt,
	}
}

// ToDomainTransfer converts a model Transfer to a domain Transfer
func ToDomainTransfer(m models.Transfer) domain.Transfer {
	return domain.Transfer{
		TransferID:    m.TransferID,
		Type:          domain.TransferType(m.TransferType),
		Status:        domain.TransferStatus(m.Status),
		AccountFromID: m.AccountFromID,
		AccountToID:   m.AccountToID,
		Amount:        m.Amount,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		CompletedAt:   m.CompletedAt,
	}
}

// ToDomainTransferSlice converts a slice of model Transfers to a slice of domain Transfers
func ToDomainTransferSlice(ms []models.Transfer) []domain.Transfer {
	ds := make([]domain.Transfer, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransfer(m)
	}
	return ds
}
