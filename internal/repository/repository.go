// Package repository defines persistence contracts for the indexed store.
// Implementations contain SQL only, no business logic.
package repository
