// Package peers turns the free-text form input into peer identifiers.
//
// Identifiers are opaque: they are trimmed but never validated, and
// duplicates are kept so that every submitted line produces its own lookup.
package peers
