// Package model defines the shared data types moved through the collection
// pipeline: catalog markets, price snapshots, and individual trades.
//
// Conventions:
//   - Prices: float64 per-share values in [0, 1]
//   - Monetary values: float64 US dollars
//   - Timestamps: time.Time in UTC
//   - IDs: opaque upstream strings; trade IDs are the upstream transaction
//     hash when available, else a deterministic UUID
package model
