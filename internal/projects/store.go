package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"showrunner/internal/config"
)

// Store is the single source of truth for project records. It mediates every
// read and write against the SQLite table and keeps an in-memory projection of
// all projects plus the currently active one, refreshed by Sync after each
// mutation.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock

	mu       sync.RWMutex
	projects []*Project
	active   *Project
}

// Open initializes or connects to the project database. A file lock on the
// data directory guards against a second writer on the same database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.DataDir, "showrunner.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire data lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another showrunner process is using the database")
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "projects.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection and releases the data lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}
	return err
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Sync reloads the full project set from the table, decoding every record,
// and replaces the in-memory projection. Read failures propagate: they
// indicate storage corruption, not a condition to paper over.
func (s *Store) Sync(ctx context.Context) error {
	records, err := s.allRecords(ctx)
	if err != nil {
		return err
	}

	projects := make([]*Project, 0, len(records))
	for _, rec := range records {
		project, err := Decode(rec)
		if err != nil {
			return err
		}
		projects = append(projects, project)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = projects
	if s.active != nil {
		s.active = findByID(projects, s.active.ID)
	}
	return nil
}

// Projects returns the projected list from the last Sync. The list is stale
// until the next Sync by design; mutations always resync before returning.
func (s *Store) Projects() []*Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]*Project, len(s.projects))
	for i, p := range s.projects {
		cp[i] = p.Clone()
	}
	return cp
}

// Active returns the currently active project, or nil when none is loaded.
func (s *Store) Active() *Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Clone()
}

// Load fetches one record, decodes it, and sets it as the active project.
// A missing id is a silent miss: the active project becomes nil and no error
// is returned, because callers pre-validate existence via routing.
func (s *Store) Load(ctx context.Context, id string) (*Project, error) {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.active = project
	s.mu.Unlock()
	return project.Clone(), nil
}

// GetByID fetches and decodes a single project. Missing ids return nil.
func (s *Store) GetByID(ctx context.Context, id string) (*Project, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return Decode(rec)
}

// Stats returns a count of projects grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM projects GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("project stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates project state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusInitial:
			health.Initial += count
		case StatusHovering:
			health.Hovering += count
		case StatusDropped:
			health.Dropped += count
		case StatusProcessing:
			health.Processing += count
		case StatusCompleted:
			health.Completed += count
		case StatusError:
			health.Errored += count
		}
	}
	return health, nil
}

// Remove deletes a project by identifier and resyncs the projection.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if err := s.Sync(ctx); err != nil {
		return affected > 0, err
	}
	return affected > 0, nil
}

const recordColumns = "id, name, notes, front_matter, chapters, ai_titles, status, created_at, updated_at, path, mp3_path, youtube_url, pr_url"

func (s *Store) getRecord(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM projects WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return rec, nil
}

func (s *Store) allRecords(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM projects ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) putRecord(ctx context.Context, rec *Record) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO projects (`+recordColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             name = excluded.name, notes = excluded.notes,
             front_matter = excluded.front_matter, chapters = excluded.chapters,
             ai_titles = excluded.ai_titles, status = excluded.status,
             created_at = excluded.created_at, updated_at = excluded.updated_at,
             path = excluded.path, mp3_path = excluded.mp3_path,
             youtube_url = excluded.youtube_url, pr_url = excluded.pr_url`,
		insertArgs(rec)...,
	)
	if err != nil {
		return fmt.Errorf("put project: %w", err)
	}
	return nil
}

func insertArgs(rec *Record) []any {
	return []any{
		rec.ID,
		nullableString(rec.Name),
		nullableString(rec.Notes),
		nullableString(rec.FrontMatter),
		nullableString(rec.Chapters),
		nullableString(rec.AITitles),
		rec.Status,
		rec.CreatedAt,
		rec.UpdatedAt,
		nullableString(rec.Path),
		nullableString(rec.MP3Path),
		nullableString(rec.YouTubeURL),
		nullableString(rec.PRURL),
	}
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id          string
		name        sql.NullString
		notes       sql.NullString
		frontMatter sql.NullString
		chapters    sql.NullString
		aiTitles    sql.NullString
		statusStr   string
		createdRaw  sql.NullString
		updatedRaw  sql.NullString
		path        sql.NullString
		mp3Path     sql.NullString
		youtubeURL  sql.NullString
		prURL       sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&name,
		&notes,
		&frontMatter,
		&chapters,
		&aiTitles,
		&statusStr,
		&createdRaw,
		&updatedRaw,
		&path,
		&mp3Path,
		&youtubeURL,
		&prURL,
	); err != nil {
		return nil, err
	}

	return &Record{
		ID:          id,
		Name:        name.String,
		Notes:       notes.String,
		FrontMatter: frontMatter.String,
		Chapters:    chapters.String,
		AITitles:    aiTitles.String,
		Status:      statusStr,
		CreatedAt:   createdRaw.String,
		UpdatedAt:   updatedRaw.String,
		Path:        path.String,
		MP3Path:     mp3Path.String,
		YouTubeURL:  youtubeURL.String,
		PRURL:       prURL.String,
	}, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func findByID(projects []*Project, id string) *Project {
	for _, p := range projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}
