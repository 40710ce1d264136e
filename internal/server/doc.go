// Package server provides the HTTP front end for peercheck.
//
// It serves a single route, "/":
//
//   - GET renders the empty lookup form
//   - POST reads the "peer_ids" form field, looks every identifier up and
//     renders the form again with a results table and totals
//
// Other methods get 405 and other paths 404. Pages are rendered from the
// embedded template in the web package with html/template, so identifiers
// and upstream error messages are always escaped.
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
package server
