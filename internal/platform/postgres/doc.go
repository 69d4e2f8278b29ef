// Package postgres provides PostgreSQL-backed implementations of the store
// interfaces. Each store accepts a store.DBTX, so the same implementation
// runs over a plain connection pool or inside a caller-managed transaction
// via WithTx. Database errors are translated to the store package's
// sentinel errors through MapError; raw driver errors never leak to
// service code.
package postgres
