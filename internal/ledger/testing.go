package ledger

import "github.com/shopspring/decimal"

// SeedBalance is a test helper that seeds the balance for an account when
// using the in-memory store.
func SeedBalance(s Store, accountID string, amount decimal.Decimal) {
	if mem, ok := s.(*inMemoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.balances[accountID] = amount
	}
}
