// Package handlers contains the HTTP handlers of the site server.
//
// This package provides handlers for:
//   - the Notion search proxy
//   - health checks
//   - path resolution, canonical URLs and the sanitized site summary
//
// Errors are reported through the foundation/errors HTTP adapter so every
// endpoint shares one JSON error shape and status mapping.
package handlers
