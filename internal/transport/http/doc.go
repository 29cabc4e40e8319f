// Package http contains the HTTP transport layer: the chi routers and
// handlers for the JSON API plus the server-rendered HTML pages.
//
// Handlers stay thin. They bind and validate request input, call the
// matching service, and render the result with go-chi/render or an
// embedded html/template. Service errors arrive as *errors.APIError
// values and map directly to the JSON error envelope.
package http
