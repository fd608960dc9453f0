// Package mcp exposes bookmark search to AI assistants over the Model
// Context Protocol on stdio.
//
// The surface is single-owner and read-only: search_bookmarks runs the
// hybrid pipeline under the assistant caller context (loose semantic
// threshold, small pages) and get_status reports collection statistics.
// All logging goes to stderr; stdout carries the protocol stream.
package mcp
