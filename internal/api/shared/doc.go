// Package shared holds the pieces used by both the API handlers and the
// middleware: JSON request decoding, response writers and context keys.
package shared
