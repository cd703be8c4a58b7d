package ai

import (
	"strings"
	"testing"
)

func TestLoadPrompts(t *testing.T) {
	prompts, err := LoadPrompts("prompts.yaml")
	if err != nil {
		t.Fatal(err)
	}

	if prompts.Rewrite.System == "" || prompts.Rewrite.User == "" {
		t.Fatal("rewrite prompt sections are empty")
	}
	if prompts.Story.System == "" || prompts.Story.User == "" {
		t.Fatal("story prompt sections are empty")
	}

	filled := prompts.Rewrite.Fill("my title", "my content")
	if !strings.Contains(filled, "my title") || !strings.Contains(filled, "my content") {
		t.Fatalf("placeholders not replaced: %q", filled)
	}
	if strings.Contains(filled, "{title}") || strings.Contains(filled, "{content}") {
		t.Fatalf("placeholders left behind: %q", filled)
	}
}

func TestLoadPromptsMissingFile(t *testing.T) {
	if _, err := LoadPrompts("does-not-exist.yaml"); err == nil {
		t.Fatal("want error for missing file, got nil")
	}
}

func TestParseRewrite(t *testing.T) {
	tests := []struct {
		name        string
		completion  string
		wantTitle   string
		wantContent string
	}{
		{
			name:        "plain json",
			completion:  `{"new_title":"A","new_content":"B"}`,
			wantTitle:   "A",
			wantContent: "B",
		},
		{
			name:        "fenced json",
			completion:  "```json\n{\"new_title\":\"A\",\"new_content\":\"B\"}\n```",
			wantTitle:   "A",
			wantContent: "B",
		},
		{
			name:        "json with surrounding prose",
			completion:  "Here you go: {\"new_title\":\"A\",\"new_content\":\"B\"} hope it helps",
			wantTitle:   "A",
			wantContent: "B",
		},
		{
			name:        "missing title falls back to original",
			completion:  `{"new_content":"B"}`,
			wantTitle:   "orig",
			wantContent: "B",
		},
		{
			name:        "not json at all",
			completion:  "just a rewritten paragraph",
			wantTitle:   "orig",
			wantContent: "just a rewritten paragraph",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseRewrite(tt.completion, "orig")
			if result.NewTitle != tt.wantTitle {
				t.Fatalf("title - want: %q, got: %q", tt.wantTitle, result.NewTitle)
			}
			if result.NewContent != tt.wantContent {
				t.Fatalf("content - want: %q, got: %q", tt.wantContent, result.NewContent)
			}
		})
	}
}

func TestParseStory(t *testing.T) {
	cards, err := parseStory("```json\n[{\"title\":\"1\",\"text\":\"a\"},{\"title\":\"\",\"text\":\"\"},{\"title\":\"2\",\"text\":\"b\"}]\n```")
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 2 {
		t.Fatalf("cards - want 2 after filtering empties, got: %d", len(cards))
	}
	if cards[0].Title != "1" || cards[1].Title != "2" {
		t.Fatalf("card order lost: %+v", cards)
	}
}

func TestParseStoryRejectsNonArray(t *testing.T) {
	if _, err := parseStory("no cards here"); err == nil {
		t.Fatal("want error for non-array output, got nil")
	}
	if _, err := parseStory("[]"); err == nil {
		t.Fatal("want error for empty deck, got nil")
	}
}
