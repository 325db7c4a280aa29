// Package collector implements the snapshot and trade collection cycles.
//
// Both collectors iterate the catalog in small concurrent batches separated
// by a short pause to bound load on the upstream API. A single market's
// failure never aborts a cycle, and nothing is retried within a cycle: the
// next scheduled tick is the retry.
package collector
