// Package web provides the embedded page template for peercheck.
//
// The template is compiled into the binary with Go's embed directive, so the
// server needs no files on disk. It is rendered by the server package for
// both GET and POST on "/".
package web

import "embed"

// PageTemplate is the path of the page template inside [Assets].
const PageTemplate = "assets/index.html.tmpl"

// Assets is an embedded filesystem containing the page template.
//
// The filesystem structure is:
//
//	assets/
//	  index.html.tmpl - form, results table and totals with inline CSS
//
//go:embed assets/*
var Assets embed.FS
