// Package sitesnap provides a bounded, polite, same-domain web crawler.
// Given a start URL it discovers pages via sitemap bootstrap and link
// following, fetches a capped number of HTML pages while respecting
// robots.txt, saves the raw HTML under an output root, and emits a CSV
// manifest describing what was saved.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., robotstxt/, goquery/, fs/).
package sitesnap
