// Package urlmap validates the site's URL override and addition tables and
// derives the lookups the router uses.
//
// Raw tables map a site-relative URI ("/blog/hello") to a Notion page id in
// either form. NormalizeMap turns one into a ForwardMap keyed by slug
// ("blog/hello") with compact page ids as values; Invert derives the
// page-id-to-slug InverseMap used to produce canonical URLs.
//
// Duplicate handling is last-write-wins in both directions: a later raw
// entry for the same slug replaces the earlier page id, and when several
// slugs point at one page the inverse keeps the slug processed last. A key
// keeps the position of its first insertion, so iteration order is stable.
//
// All maps are immutable once built and safe for concurrent readers.
package urlmap
