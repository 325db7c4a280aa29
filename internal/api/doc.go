// Package api provides the client for the upstream market-data REST API.
//
// Two hosts are consumed:
//   - the gamma host: paginated event/market listings and per-market detail
//   - the data host: per-condition trade listings
//
// The client performs no in-flight retries. Collectors run on fixed ticks
// and the next tick is the retry policy; the upstream is rate-limit
// sensitive and in-cycle retries have caused backoff cascades.
package api
