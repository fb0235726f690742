// Package schema derives and caches, per entity type, the ordered column set
// and primary-key column used by the command builders and the result mapper.
package schema
