// Package bridge exposes the request executor over a local HTTP API so a
// desktop shell or webview can invoke it.
//
// Routes:
//   - POST /execute   run one request, reply with the normalized response
//   - GET  /healthz   liveness
//   - GET  /version   build information
//   - GET  /metrics   Prometheus metrics
//
// Errors are projected to {"error": {"kind": ..., "message": ...}} where the
// message is the same string the shell would display.
package bridge
