// Package app wires the screener service together: configuration,
// logging, tracing, metrics, the service layer and the HTTP server with
// its middleware chain. Run blocks until shutdown and drains the server
// before releasing the observability stack.
package app
