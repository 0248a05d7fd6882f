// Package notifications delivers production milestones via pluggable
// notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. CLI code depends only on the Service interface; extend this
// package for alternative transports.
package notifications
