// Package store provides the PostgreSQL persistence layer.
//
// Three collections are written:
//   - markets: the catalog, replaced wholesale each discovery cycle
//   - market_snapshots: append-only time series keyed by (market_id, snapshot_time)
//   - trades: append-only ledger deduplicated by trade id via
//     ON CONFLICT DO NOTHING
//
// Nothing in this package updates a row in place.
package store
