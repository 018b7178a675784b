// Package notion is a minimal client for the Notion search endpoint used by
// the site's search box. Only the public quick-find search is implemented.
package notion
