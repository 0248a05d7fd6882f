package projects

import (
	"strings"
	"time"
)

// Status represents the production lifecycle of a project.
type Status string

const (
	StatusInitial    Status = "initial"
	StatusHovering   Status = "hovering"
	StatusDropped    Status = "dropped"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

var allStatuses = []Status{
	StatusInitial,
	StatusHovering,
	StatusDropped,
	StatusProcessing,
	StatusCompleted,
	StatusError,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Chapter is a single chapter marker inside an episode.
type Chapter struct {
	ID      string `json:"id"`
	StartMS int64  `json:"start_ms"`
	EndMS   int64  `json:"end_ms"`
	Title   string `json:"title"`
}

// Project is one episode's production record. Chapters and AITitles are held
// structured in memory; at rest they live as JSON-encoded TEXT columns.
type Project struct {
	ID          string
	Name        string
	Notes       string
	FrontMatter string
	Chapters    []Chapter
	AITitles    []string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Path        string
	MP3Path     string
	YouTubeURL  string
	PRURL       string
}

// IsTerminal reports whether a status ends the workflow.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDropped, StatusCompleted:
		return true
	default:
		return false
	}
}

// HealthSummary describes aggregated project counts per lifecycle state.
type HealthSummary struct {
	Total      int
	Initial    int
	Hovering   int
	Dropped    int
	Processing int
	Completed  int
	Errored    int
}

// Clone returns a deep copy so callers can mutate projections freely.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Chapters != nil {
		cp.Chapters = make([]Chapter, len(p.Chapters))
		copy(cp.Chapters, p.Chapters)
	}
	if p.AITitles != nil {
		cp.AITitles = make([]string, len(p.AITitles))
		copy(cp.AITitles, p.AITitles)
	}
	return &cp
}
