// Package output renders executor results for the terminal.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: the same shape the desktop shell receives
//
// Query extracts a value from a JSON response body with a gjson path.
package output
