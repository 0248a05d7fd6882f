// Package frontmatter reads and modifies the YAML metadata block at the top
// of a project's notes (date, episode number, title, guests). The rest of the
// repository treats the block as an opaque string.
package frontmatter
