package ledger

import (
	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/types"
)

// TokenTransaction is one immutable signed entry in a user's token ledger.
// Negative amounts are debits, positive amounts are credits. Entries are
// created once and never mutated or deleted; the sum of all entries for a
// user is that user's true balance.
type TokenTransaction struct {
	ID          string                `db:"id" json:"id"`
	UserID      string                `db:"user_id" json:"user_id"`
	Amount      int64                 `db:"amount" json:"amount"`
	Kind        types.TransactionKind `db:"kind" json:"kind"`
	Description string                `db:"description" json:"description"`
	types.BaseModel
}

func (t *TokenTransaction) TableName() string {
	return "token_transactions"
}

func (t *TokenTransaction) Validate() error {
	if t.UserID == "" {
		return ierr.NewError("user_id is required").
			WithHint("Ledger entries must belong to a user").
			Mark(ierr.ErrValidation)
	}

	if t.Amount == 0 {
		return ierr.NewError("amount must not be zero").
			WithHint("Ledger entries must credit or debit tokens").
			Mark(ierr.ErrValidation)
	}

	return t.Kind.Validate()
}
