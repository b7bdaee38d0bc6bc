// Package core provides the table model and actions for the recipe editor.
//
// This package has no HTTP or storage dependencies; the remote source and
// the edit store are reached through the [Fetcher] and [Store] interfaces,
// so the same logic serves the web handlers and the tests.
//
// # Record Sets
//
// A [Table] keeps three copies of the records:
//
//   - Fetched snapshot: loaded once from the source, used only by Reset.
//   - Working set: the copy edited cell by cell.
//   - Persisted snapshot: the last submitted working set, also written to
//     the store under [DefaultStoreKey].
//
// Records have no identifier. Edits address records by position, and the
// working set always lines up with the fetched snapshot position for
// position.
//
// # Precedence
//
// The view renders [Table.EffectiveData]: the persisted snapshot when one
// exists, otherwise the working set. After a Submit, later edits still
// change the working set (and are written by the next Submit) but are not
// shown until Reset clears the persisted snapshot.
//
// # Lifecycle
//
// A [Service] starts in [StateLoading]. [Service.Load] fetches the records
// once; on success the service is [StateReady] for the rest of the process.
// A failed load leaves it in Loading.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Codes: TBL001-TBL004 (table state, columns and positions), VAL001 (numbers),
// SRC001 (remote source), STO001-STO002 (edit store), REQ001-REQ002
// (request lifecycle), ERR000 (fallback).
package core
