package projects_test

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"showrunner/internal/projects"
)

func TestCodecRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	project := &projects.Project{
		ID:          "m8abc123-deadbeef",
		Name:        "Episode 900",
		Notes:       "---\ntitle: Ep 900\n---\n# Notes",
		FrontMatter: "title: Ep 900",
		Chapters: []projects.Chapter{
			{ID: "ch-1", StartMS: 0, EndMS: 95000, Title: "Intro"},
			{ID: "ch-2", StartMS: 95000, EndMS: 180000, Title: "Topic"},
		},
		AITitles:   []string{"You Won't Believe Episode 900", "The 900 Club"},
		Status:     projects.StatusProcessing,
		CreatedAt:  created,
		UpdatedAt:  created.Add(time.Hour),
		Path:       "/notes/900.md",
		MP3Path:    "/audio/900.mp3",
		YouTubeURL: "https://youtube.com/watch?v=x",
		PRURL:      "https://github.com/example/site/pull/900",
	}

	rec, err := projects.Encode(project)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if rec.Chapters == "" || rec.AITitles == "" {
		t.Fatalf("expected serialized chapter and title fields: %#v", rec)
	}

	decoded, err := projects.Decode(rec)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(project, decoded) {
		t.Fatalf("round trip mismatch:\n want %#v\n got  %#v", project, decoded)
	}
}

func TestDecodeToleratesSecondPrecisionTimestamps(t *testing.T) {
	rec := &projects.Record{
		ID:        "p-1",
		Status:    "initial",
		CreatedAt: "2026-03-14T09:26:53Z",
	}
	decoded, err := projects.Decode(rec)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.CreatedAt.IsZero() {
		t.Fatal("expected created timestamp parsed")
	}
}

func TestDecodeEmptyFieldsStayNil(t *testing.T) {
	decoded, err := projects.Decode(&projects.Record{ID: "p-1", Status: "initial"})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.Chapters != nil || decoded.AITitles != nil {
		t.Fatalf("expected nil slices for empty serialized fields: %#v", decoded)
	}
}

func TestRecordUnmarshalAcceptsStringForm(t *testing.T) {
	doc := `{
		"id": "p-1",
		"status": "hovering",
		"chapters": "[{\"id\":\"ch-1\",\"start_ms\":0,\"end_ms\":1000,\"title\":\"Intro\"}]",
		"ai_titles": "[\"Alpha\",\"Beta\"]"
	}`

	var rec projects.Record
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	decoded, err := projects.Decode(&rec)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded.Chapters) != 1 || decoded.Chapters[0].Title != "Intro" {
		t.Fatalf("unexpected chapters: %#v", decoded.Chapters)
	}
	if len(decoded.AITitles) != 2 || decoded.AITitles[1] != "Beta" {
		t.Fatalf("unexpected titles: %#v", decoded.AITitles)
	}
}

func TestRecordUnmarshalAcceptsInlineArrays(t *testing.T) {
	doc := `{
		"id": "p-2",
		"status": "initial",
		"chapters": [{"id":"ch-1","start_ms":0,"end_ms":1000,"title":"Intro"}],
		"ai_titles": ["Alpha"]
	}`

	var rec projects.Record
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	decoded, err := projects.Decode(&rec)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded.Chapters) != 1 || decoded.Chapters[0].EndMS != 1000 {
		t.Fatalf("unexpected chapters: %#v", decoded.Chapters)
	}
	if len(decoded.AITitles) != 1 || decoded.AITitles[0] != "Alpha" {
		t.Fatalf("unexpected titles: %#v", decoded.AITitles)
	}
}

func TestRecordUnmarshalIdempotent(t *testing.T) {
	original := projects.Record{
		ID:       "p-3",
		Status:   "completed",
		Chapters: `[{"id":"ch-1","start_ms":0,"end_ms":42,"title":"Only"}]`,
		AITitles: `["Solo"]`,
	}

	first, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var rec projects.Record
	if err := json.Unmarshal(first, &rec); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	second, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("second Marshal failed: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("expected stable re-encoding:\n first  %s\n second %s", first, second)
	}
}

func TestRecordUnmarshalRejectsMalformedSerializedField(t *testing.T) {
	doc := `{"id": "p-4", "chapters": {"nope": true}}`
	var rec projects.Record
	if err := json.Unmarshal([]byte(doc), &rec); err == nil {
		t.Fatal("expected non-array chapters to be rejected")
	}
}

func TestNewIDIsSortableAndUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 64; i++ {
		id := projects.NewID()
		if id == "" {
			t.Fatal("expected non-empty id")
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = struct{}{}
	}
}
