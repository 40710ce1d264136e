// Package fetcher looks up peer identifiers against the dashboard API.
//
// Each submission gets its own fixed-size worker pool; nothing is shared
// between submissions except the pooled HTTP connections in [Client].
//
// The main components are:
//
//   - [Client]: HTTP client wrapper with per-request timeout and body limit
//   - [Fetcher]: bounded worker pool issuing one GET per identifier
//   - [Decode]: turns a dashboard response into a results.PeerResult
//
// Failures never escape as Go errors. A transport error, a non-200 status or
// an undecodable body becomes an error result for that identifier only, and
// nothing is retried.
package fetcher
