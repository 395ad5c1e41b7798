package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the mutable balance view derived from the ledger. The balance is
// mutated only by ledger-affecting workflows and always equals the sum of
// completed credits minus completed debits.
type Account struct {
	ID        string
	OwnerID   string
	Balance   decimal.Decimal
	Currency  string
	CreatedAt time.Time
}

// Statement couples an account with its most recent ledger activity.
type Statement struct {
	Account      Account
	Transactions []Transaction
	AsOf         time.Time
}

// Transaction mirrors the ledger record for display purposes.
type Transaction struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        string          `json:"type"`
	Status      string          `json:"status"`
	Reference   string          `json:"reference_number"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}
