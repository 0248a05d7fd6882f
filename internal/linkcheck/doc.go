// Package linkcheck validates the hyperlinks embedded in rendered show-note
// markdown before publication.
//
// The Checker fans HEAD probes out across every absolute link in a document,
// falls back to GET when HEAD times out, and reports incremental progress as
// probes resolve. Reachable URLs are remembered in a process-lifetime Cache so
// repeated validation passes during editing skip the network. Probe failures
// are data, not errors: they come back as invalid Results and are never
// raised to the caller.
package linkcheck
