// Package html converts note bodies from HTML into plain text with light
// Markdown: headings, emphasis, code, quotes and bullet lists.
//
// The primary path parses the fragment into a tree with golang.org/x/net/html
// and walks it. If parsing fails, panics, or the tree nests too deeply, a
// pattern-based path strips the markup instead, so conversion always
// produces output.
package html
