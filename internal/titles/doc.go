// Package titles talks to a chat-completion API to generate candidate
// episode titles from a working title. The feature is optional; without an
// API key the client reports itself disabled.
package titles
