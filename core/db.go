package core

import "github.com/fox-one/pkg/store/db"

// Txer runs fn atomically against the backing store; any error rolls
// back every write made inside fn. *db.DB satisfies it.
type Txer interface {
	Tx(fn func(tx *db.DB) error) error
}
