package testsupport

import (
	"context"
	"testing"

	"showrunner/internal/config"
	"showrunner/internal/projects"
)

// MustOpenStore opens a projects.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *projects.Store {
	t.Helper()

	store, err := projects.Open(cfg)
	if err != nil {
		t.Fatalf("projects.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddProject creates a fresh project for tests using the provided store.
func AddProject(t testing.TB, store *projects.Store) *projects.Project {
	t.Helper()

	project, err := store.Add(context.Background())
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return project
}
