package projects

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Record is the at-rest shape of a project: chapters and ai_titles are
// JSON-encoded strings (or empty), timestamps are RFC 3339 strings. It is
// also the element shape of export/import documents.
type Record struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Notes       string `json:"notes,omitempty"`
	FrontMatter string `json:"frontmatter,omitempty"`
	Chapters    string `json:"chapters,omitempty"`
	AITitles    string `json:"ai_titles,omitempty"`
	Status      string `json:"status,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
	Path        string `json:"path,omitempty"`
	MP3Path     string `json:"mp3_path,omitempty"`
	YouTubeURL  string `json:"youtube_url,omitempty"`
	PRURL       string `json:"pr_url,omitempty"`
}

// UnmarshalJSON accepts chapters and ai_titles either as JSON-encoded strings
// (the at-rest form) or as inline arrays (the structured form), so importing a
// hand-edited document works. Structured values are re-encoded to the at-rest
// string form, which keeps encoding idempotent: a record whose fields are
// already strings passes through unchanged.
func (r *Record) UnmarshalJSON(data []byte) error {
	type alias Record
	raw := struct {
		alias
		Chapters json.RawMessage `json:"chapters"`
		AITitles json.RawMessage `json:"ai_titles"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record(raw.alias)

	chapters, err := normalizeSerializedField(raw.Chapters)
	if err != nil {
		return fmt.Errorf("chapters: %w", err)
	}
	titles, err := normalizeSerializedField(raw.AITitles)
	if err != nil {
		return fmt.Errorf("ai_titles: %w", err)
	}
	r.Chapters = chapters
	r.AITitles = titles
	return nil
}

func normalizeSerializedField(raw json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return "", err
		}
		return value, nil
	}
	// Inline array: verify it parses, then store it serialized.
	var probe []json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", err
	}
	compact, err := json.Marshal(json.RawMessage(trimmed))
	if err != nil {
		return "", err
	}
	return string(compact), nil
}

// Encode serializes a structured project into its at-rest record.
func Encode(p *Project) (*Record, error) {
	if p == nil {
		return nil, fmt.Errorf("encode: project is nil")
	}
	rec := &Record{
		ID:          p.ID,
		Name:        p.Name,
		Notes:       p.Notes,
		FrontMatter: p.FrontMatter,
		Status:      string(p.Status),
		Path:        p.Path,
		MP3Path:     p.MP3Path,
		YouTubeURL:  p.YouTubeURL,
		PRURL:       p.PRURL,
	}
	if !p.CreatedAt.IsZero() {
		rec.CreatedAt = p.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	if !p.UpdatedAt.IsZero() {
		rec.UpdatedAt = p.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	if p.Chapters != nil {
		data, err := json.Marshal(p.Chapters)
		if err != nil {
			return nil, fmt.Errorf("encode chapters: %w", err)
		}
		rec.Chapters = string(data)
	}
	if p.AITitles != nil {
		data, err := json.Marshal(p.AITitles)
		if err != nil {
			return nil, fmt.Errorf("encode ai titles: %w", err)
		}
		rec.AITitles = string(data)
	}
	return rec, nil
}

// Decode deserializes an at-rest record into a structured project. Empty
// serialized fields decode to nil slices; timestamps tolerate both the nano
// and second RFC 3339 renderings.
func Decode(rec *Record) (*Project, error) {
	if rec == nil {
		return nil, fmt.Errorf("decode: record is nil")
	}
	p := &Project{
		ID:          rec.ID,
		Name:        rec.Name,
		Notes:       rec.Notes,
		FrontMatter: rec.FrontMatter,
		Status:      Status(rec.Status),
		Path:        rec.Path,
		MP3Path:     rec.MP3Path,
		YouTubeURL:  rec.YouTubeURL,
		PRURL:       rec.PRURL,
	}
	if rec.Chapters != "" {
		if err := json.Unmarshal([]byte(rec.Chapters), &p.Chapters); err != nil {
			return nil, fmt.Errorf("decode chapters for %s: %w", rec.ID, err)
		}
	}
	if rec.AITitles != "" {
		if err := json.Unmarshal([]byte(rec.AITitles), &p.AITitles); err != nil {
			return nil, fmt.Errorf("decode ai titles for %s: %w", rec.ID, err)
		}
	}
	if rec.CreatedAt != "" {
		created, err := parseTimeString(rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("decode created_at for %s: %w", rec.ID, err)
		}
		p.CreatedAt = created
	}
	if rec.UpdatedAt != "" {
		updated, err := parseTimeString(rec.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("decode updated_at for %s: %w", rec.ID, err)
		}
		p.UpdatedAt = updated
	}
	return p, nil
}

func parseTimeString(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
