// Package repository provides a generic repository over the norm facade
// for key lookups, predicate queries and entity writes.
package repository
