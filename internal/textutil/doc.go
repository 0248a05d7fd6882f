// Package textutil provides small text helpers shared by the store and CLI:
// deriving project names from episode file paths and truncating values for
// table display.
package textutil
