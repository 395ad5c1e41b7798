package withdrawal

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/lawpadi/lawpadi/internal/ledger"
)

// ErrReferenceExhausted indicates reference generation kept colliding with
// existing ledger entries and gave up.
var ErrReferenceExhausted = errors.New("could not generate a unique transaction reference")

const maxReferenceAttempts = 5

// newReference produces a timestamp-plus-random transaction reference unique
// among existing ledger entries. Collisions trigger regeneration up to a
// bounded number of attempts.
func newReference(ctx context.Context, store ledger.Store) (string, error) {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		candidate := fmt.Sprintf("%d%04d", time.Now().UnixMilli(), rand.Intn(9000)+1000)
		_, err := store.FindByReference(ctx, candidate)
		if errors.Is(err, ledger.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", ErrReferenceExhausted
}
