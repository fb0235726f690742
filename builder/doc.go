// Package builder generates the SQL Server statements norm executes:
// SELECT with an optional filter, sort keys and TOP limit, and INSERT,
// UPDATE and DELETE derived from an entity's columns.
//
// Insert stamps created-convention columns (Created, CreateDate, CreatedOn)
// and Update stamps updated-convention columns (Updated, UpdateDate,
// UpdatedOn) on the entity itself before binding them. Empty strings and
// nil values are bound as SQL NULL. The generated key of an insert is
// returned by an OUTPUT INSERTED clause, so the statement yields one scalar.
package builder
