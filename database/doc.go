// Package database is the connection boundary of norm: the Connection,
// Command and RowCursor interfaces the core executes statements through,
// a database/sql adapter for them, and the bun-backed manager that opens
// SQL Server, MySQL, PostgreSQL and SQLite handles from YAML configuration.
package database
