package types

import ierr "github.com/tubachi/tokenledger/internal/errors"

// TransactionKind classifies a token ledger entry.
type TransactionKind string

const (
	TransactionKindUsage            TransactionKind = "usage"
	TransactionKindMonthlyCredit    TransactionKind = "monthly_credit"
	TransactionKindManualAdjustment TransactionKind = "manual_adjustment"
)

func (k TransactionKind) Validate() error {
	switch k {
	case TransactionKindUsage, TransactionKindMonthlyCredit, TransactionKindManualAdjustment:
		return nil
	default:
		return ierr.NewError("invalid transaction kind").
			WithHintf("Transaction kind %s is not supported", k).
			Mark(ierr.ErrValidation)
	}
}
