// Package formatter renders derived views for display and wraps them in
// JSON API responses.
//
// This package is organized into:
//   - labels.go: 12-hour clock text and delay labels
//   - wrapper.go: rendered departure rows and the response envelope
//   - json.go: JSON serialization
package formatter
