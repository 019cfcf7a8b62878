// Package papertrade simulates a multi-portfolio trading account: a
// hierarchy of budget-allocated portfolios holding assets, a chronological
// trade ledger, and the analytics derived from them.
//
// The core functionalities include:
//   - Portfolio Tree: pure, immutably-updated operations over the hierarchy
//     of budget allocations and held assets.
//   - Trade Execution: applying buy and sell trades with weighted-average
//     cost basis, cash accounting, and fee handling.
//   - Profit Propagation: realized profit, net of fees, grows the target
//     portfolio's allocation and every ancestor's.
//   - Position Reconstruction: replaying the ledger into open and closed
//     lots per portfolio and asset.
//   - Replay on Edit: deleting a historical trade rebuilds the affected
//     portfolio's assets from the surviving ledger, so derived state is
//     always a pure function of it.
//   - Net-Worth History: an append-only total-value snapshot after every
//     mutating operation.
//   - Persistence: opaque JSON snapshots saved to a per-account key-value
//     store with a debounced remote write and a synchronous local cache.
//
// This package serves as the foundational logic for the `pt` command-line
// tool; all operations are total functions from one immutable state
// snapshot to the next.
package papertrade
