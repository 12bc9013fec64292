package cache

import (
	"github.com/dgraph-io/ristretto"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
)

// S backs the process-wide expiring key-value store used for ephemeral
// verification codes. Entries are inserted on issuance with a TTL and
// consumed (read then deleted) on verification.
var S *ristretto_store.RistrettoStore

func NewStore() error {
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return err
	}

	S = ristretto_store.NewRistretto(client)
	return nil
}
