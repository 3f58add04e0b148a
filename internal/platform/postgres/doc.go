// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in the internal/store package.
//
// Each store accepts a store.DBTX, so the same implementation runs against a
// plain connection pool or inside a caller-managed transaction via WithTx.
// Database errors are translated to store sentinel errors (ErrNotFound and
// friends) at this boundary; callers never see driver-level errors.
package postgres
