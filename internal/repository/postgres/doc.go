// Package postgres implements the dispatch repository contracts against
// PostgreSQL using database/sql and lib/pq. The compare-and-swap campaign
// lock and the atomic send commit both live here: the first as a
// conditional UPDATE, the second as a single transaction.
package postgres
