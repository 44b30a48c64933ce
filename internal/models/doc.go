// Package models defines the core domain models for Groupify.
//
// # Models
//
//   - Receipt: a parsed receipt with line items, tip and currency
//   - Item: a single line item, assignable to one or more people
//   - Settlement: a directed payment between two people
//   - SettlementAnalysis: the full settlement result, including the
//     per-person breakdown and payment instructions
//   - Session: a saved shell session (receipt + roster) for the CLI
//
// # Design Principles
//
//  1. People are identified by name strings, unique and case-sensitive
//     within a roster. There are no user accounts.
//  2. Monetary values are decimal.Decimal throughout; binary floating
//     point appears only in the JSON export DTOs, after rounding to the
//     currency's minor unit.
//  3. The settlement engine treats Receipt and roster as read-only
//     snapshots and produces fresh output records. Mutable session state
//     belongs to the shell, never to the engine.
//  4. The analysis field set is fixed: it is the export compatibility
//     boundary, so every field is an explicit struct member.
package models
