// Package types defines the entity model shared by the console and storage:
// entity kinds, the tagged scalar field value, the Entity record with its
// identity and timestamp bookkeeping, and the package's sentinel errors.
package types
