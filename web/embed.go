// Package web embeds the HTML templates and static assets the server
// renders the bank pages from.
package web

import "embed"

// TemplatesFS holds the page templates and shared layout blocks.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and any other static assets.
//
//go:embed static/*
var StaticFS embed.FS
