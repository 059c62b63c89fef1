package markdown_test

import (
	"strings"
	"testing"

	"recap/internal/platform/markdown"
)

type noteMeta struct {
	Title  string   `yaml:"title"`
	Topics []string `yaml:"topics"`
}

func TestRenderSplitRoundTrip(t *testing.T) {
	t.Parallel()
	in := noteMeta{Title: "retro", Topics: []string{"go", "sqlite"}}
	note, err := markdown.Render(in, "# Session\n\nnotes here\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(note, "---\n") {
		t.Fatalf("note must start with frontmatter, got %q", note)
	}

	var out noteMeta
	body, err := markdown.Split(note, &out)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if out.Title != in.Title || len(out.Topics) != 2 || out.Topics[1] != "sqlite" {
		t.Fatalf("meta must round-trip, got %+v", out)
	}
	if !strings.Contains(body, "notes here") {
		t.Fatalf("body must survive, got %q", body)
	}
}

func TestSplitWithoutFrontmatterReturnsContent(t *testing.T) {
	t.Parallel()
	var out noteMeta
	body, err := markdown.Split("just a plain note\n", &out)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if body != "just a plain note\n" || out.Title != "" {
		t.Fatalf("plain content must pass through untouched, got %q %+v", body, out)
	}
}

func TestSplitMissingClosingSeparatorFails(t *testing.T) {
	t.Parallel()
	var out noteMeta
	if _, err := markdown.Split("---\ntitle: broken\n", &out); err == nil {
		t.Fatalf("unterminated frontmatter must be an error")
	}
}
