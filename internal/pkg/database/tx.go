package database

import (
	"context"
)

// TxManager runs a function inside a single storage transaction. The engines
// use it so each operation, including its audit append, commits or rolls
// back as one unit.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
