// Package models defines the core domain models for Splitbot.
//
// # Models
//
//   - Money: a monetary amount in integer minor units (cents)
//   - Payment: one contribution toward an expense, made by a payer
//   - Debt: a directed obligation from a debtor to a payer
//   - Expense: a shared expense with its payments, attendees and derived debts
//
// # Design Principles
//
// 1. **Integer money**: all arithmetic happens in minor units; decimal
// conversion is confined to the chat boundary (parsing and rendering).
//
// 2. **Derived debts**: an Expense's debts are computed once at creation by
// the settlement calculator. After that, only the paid / reminder bookkeeping
// fields of an existing debt ever change.
//
// 3. **Opaque identities**: users are identified by the ID string the chat
// platform hands us. Splitbot has no user accounts of its own.
package models
