package projects

import (
	"context"
	"fmt"
	"time"

	"showrunner/internal/textutil"
)

// Add creates a new project with a generated id, status initial, empty front
// matter, and current timestamps, writes it, resyncs, and returns the new
// project so callers can navigate to its detail view.
func (s *Store) Add(ctx context.Context) (*Project, error) {
	return s.add(ctx, "New Project", "")
}

// AddFromFile creates a project for a dropped episode recording, deriving the
// project name from the file name.
func (s *Store) AddFromFile(ctx context.Context, path string) (*Project, error) {
	return s.add(ctx, textutil.DeriveName(path), path)
}

func (s *Store) add(ctx context.Context, name, mp3Path string) (*Project, error) {
	now := time.Now().UTC()
	project := &Project{
		ID:        NewID(),
		Name:      name,
		Status:    StatusInitial,
		CreatedAt: now,
		UpdatedAt: now,
		MP3Path:   mp3Path,
	}

	rec, err := Encode(project)
	if err != nil {
		return nil, err
	}
	if err := s.putRecord(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.Sync(ctx); err != nil {
		return nil, err
	}
	return project, nil
}

// Update carries a partial project update for Save. Nil fields are left
// untouched; set fields replace the stored value wholesale. The merge is
// shallow: a Chapters value replaces the entire chapter list.
type Update struct {
	ID          string
	Name        *string
	Notes       *string
	FrontMatter *string
	Chapters    *[]Chapter
	AITitles    *[]string
	Status      *Status
	Path        *string
	MP3Path     *string
	YouTubeURL  *string
	PRURL       *string
}

// Save reads the current persisted record, shallow-merges the update over it,
// stamps UpdatedAt, writes back, and resyncs. When the saved project is the
// active one, the active reference is refreshed from the newly synced list.
// Saving an id the table has never seen fails with ErrNotFound.
func (s *Store) Save(ctx context.Context, update Update) (*Project, error) {
	if update.ID == "" {
		return nil, fmt.Errorf("save: %w: empty id", ErrNotFound)
	}

	current, err := s.GetByID(ctx, update.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("save %s: %w", update.ID, ErrNotFound)
	}

	merged := applyUpdate(current, update)
	merged.UpdatedAt = time.Now().UTC()

	rec, err := Encode(merged)
	if err != nil {
		return nil, err
	}
	if err := s.putRecord(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.Sync(ctx); err != nil {
		return nil, err
	}
	return merged, nil
}

// SetStatus records a status transition. The in-memory projection is updated
// optimistically before the durable write; when the write fails the memory
// state runs ahead of storage until the next Sync. The Store never rejects a
// transition, legality is the caller's concern.
func (s *Store) SetStatus(ctx context.Context, id string, status Status) (*Project, error) {
	s.mu.Lock()
	if s.active != nil && s.active.ID == id {
		s.active.Status = status
	}
	if projected := findByID(s.projects, id); projected != nil {
		projected.Status = status
	}
	s.mu.Unlock()

	return s.Save(ctx, Update{ID: id, Status: &status})
}

func applyUpdate(current *Project, update Update) *Project {
	merged := current.Clone()
	if update.Name != nil {
		merged.Name = *update.Name
	}
	if update.Notes != nil {
		merged.Notes = *update.Notes
	}
	if update.FrontMatter != nil {
		merged.FrontMatter = *update.FrontMatter
	}
	if update.Chapters != nil {
		merged.Chapters = *update.Chapters
	}
	if update.AITitles != nil {
		merged.AITitles = *update.AITitles
	}
	if update.Status != nil {
		merged.Status = *update.Status
	}
	if update.Path != nil {
		merged.Path = *update.Path
	}
	if update.MP3Path != nil {
		merged.MP3Path = *update.MP3Path
	}
	if update.YouTubeURL != nil {
		merged.YouTubeURL = *update.YouTubeURL
	}
	if update.PRURL != nil {
		merged.PRURL = *update.PRURL
	}
	return merged
}
