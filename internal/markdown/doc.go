// Package markdown renders show-note markdown to HTML and extracts the
// absolute hyperlinks the link checker probes.
package markdown
