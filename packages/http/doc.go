// Package http executes single HTTP requests for apidesk and normalizes the result.
//
// It wraps the standard library's http package with:
//   - Method validation against a fixed allow-list
//   - Wall-clock timing of the exchange
//   - Full materialization of response headers and body as text
//   - Tagged validation and transport errors
//   - Per-call deadlines through context and Request.Timeout
package http
