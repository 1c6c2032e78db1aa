// Package models defines the core domain models for Splitledger.
//
// # Models
//
//   - Group: the aggregate root; owns its members and expenses
//   - Member: a named participant within one group
//   - Expense: an immutable record of one payment and who shares its cost
//   - Balance: derived net position of a member (never persisted)
//
// # Design Principles
//
// 1. **Whole-aggregate storage**: stores read and write a Group as one value
// 2. **Append-only**: members and expenses are never edited or removed
// 3. **Opaque identifiers**: IDs wrap random UUIDs and are compared by value
// 4. **No hidden sharing**: Clone returns a deep copy so callers never alias store state
package models
