// Package http exposes the coordinator's scheduling sessions over a JSON
// API. Handlers stay thin: they decode requests, resolve the calling
// principal, delegate to the workflow service, and translate its errors
// into HTTP status codes.
package http
