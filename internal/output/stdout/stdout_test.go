package stdout

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/crimson-sun/industry-codes/internal/model"
	"github.com/crimson-sun/industry-codes/internal/output"
)

func testResult() model.QueryResult {
	return model.QueryResult{
		Query: "software & services",
		Field: "both",
		Matches: []model.ScoredMatch{{
			Record: model.NewRecord(4, "Software Development",
				"Technology, Information and Media > Software Development", ""),
			Distance:   14,
			Similarity: 0.5,
		}},
	}
}

// captureStdout redirects os.Stdout to capture output.
func captureStdout(fn func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestOutputCompactJSON(t *testing.T) {
	result := captureStdout(func() {
		out := New(output.Standard, false)
		out.Write(context.Background(), testResult())
	})

	// Should be single line (NDJSON).
	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["query"] != "software & services" {
		t.Fatalf("expected query preserved, got %v", m["query"])
	}
	if strings.Contains(lines[0], `\u0026`) {
		t.Fatalf("expected '&' not to be HTML-escaped: %s", lines[0])
	}
}

func TestOutputPrettyJSON(t *testing.T) {
	var buf bytes.Buffer
	out := NewWriter(&buf, output.Standard, true)
	if err := out.Write(context.Background(), testResult()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if !strings.Contains(buf.String(), "\n  \"query\"") {
		t.Fatalf("expected indented output, got: %s", buf.String())
	}
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
}

func TestOutputMinimalOmitsFields(t *testing.T) {
	var buf bytes.Buffer
	out := NewWriter(&buf, output.Minimal, false)
	out.Write(context.Background(), testResult())

	if strings.Contains(buf.String(), "hierarchy") {
		t.Fatalf("hierarchy should be omitted at Minimal: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"industry_id":4`) {
		t.Fatalf("expected industry_id at Minimal: %s", buf.String())
	}
}

func TestOutputSequentialLines(t *testing.T) {
	var buf bytes.Buffer
	out := NewWriter(&buf, output.Minimal, false)
	for _, q := range []string{"a", "b", "c"} {
		r := testResult()
		r.Query = q
		out.Write(context.Background(), r)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, want := range []string{"a", "b", "c"} {
		var m map[string]any
		json.Unmarshal([]byte(lines[i]), &m)
		if m["query"] != want {
			t.Fatalf("line %d: expected query %q, got %v", i, want, m["query"])
		}
	}
}
