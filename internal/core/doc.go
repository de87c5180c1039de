// Package core turns the five sales source tables into published sales rows.
//
// The package has no I/O. Readers in package source produce [RawTables];
// sinks in package sink consume [OutputRecord] values. Everything in between
// is deterministic given [Options].Today and runs in a fixed order:
//
//  1. [NormalizeTables] parses order dates, birthdays and rate dates.
//  2. [Fuse] joins transactions to products (inner), then customers, stores
//     and exchange rates (left).
//  3. [Reconcile] flattens the join and renames colliding columns.
//  4. [Derive] cleans prices and computes age and revenue.
//  5. [Project] builds the 19 published fields and rounds money to cents.
//
// [Run] chains all five. A stage either returns a complete new slice or an
// error; callers never see a partial result.
//
// # Dates
//
// 2-digit years resolve against a reference date: [Options].Today, or
// [NormalizeOptions].Today when calling the stage directly. A zero reference
// reads the clock, as does [ParseDate]; [ParseDateAt] never does.
//
// # Nulls
//
// Left-join misses are carried as invalid [database/sql.Null] values, never as
// zero. A missing exchange rate leaves Exchange Rate and Revenue in Local
// Currency null while Revenue is still set. A composite location with any
// null part is null as a whole.
//
// # Errors
//
//   - [ParseError]: a date or number that matched no known format
//   - [FormatError]: a price with characters left after cleaning
//   - [JoinIntegrityError]: a duplicate join key when Strict is set
//   - [SinkError]: a failed write, reported by package sink
package core
