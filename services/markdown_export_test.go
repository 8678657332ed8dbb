package services

import (
	"strings"
	"testing"
	"time"

	"github.com/botblog/backend/models"
	"go.yaml.in/yaml/v3"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":                            "hello-world",
		"  Azure Tips & Tricks!  ":               "azure-tips-tricks",
		"Cloud Computing Trends - Bot Generated": "cloud-computing-trends---bot-generated",
		"Go 1.22   released":                     "go-122-released",
		"???":                                    "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) want %q got %q", in, want, got)
		}
	}
}

func TestPostSlugFallsBackToID(t *testing.T) {
	if got := PostSlug(models.Post{ID: 42, Title: "!!!"}); got != "post-42" {
		t.Fatalf("fallback slug want post-42 got %q", got)
	}
}

func TestRenderHugoMarkdown(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	updated := created.Add(time.Hour)
	post := models.Post{
		ID:        7,
		Title:     "Understanding Artificial Intelligence - Bot Generated",
		Content:   "Body text.",
		Author:    models.BotAuthor,
		CreatedAt: created,
		UpdatedAt: &updated,
		Bot:       true,
	}

	out, err := RenderHugoMarkdown(post)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	text := string(out)
	if !strings.HasPrefix(text, "---\n") {
		t.Fatalf("missing opening delimiter: %q", text)
	}
	parts := strings.SplitN(strings.TrimPrefix(text, "---\n"), "---\n\n", 2)
	if len(parts) != 2 {
		t.Fatalf("missing closing delimiter: %q", text)
	}
	if parts[1] != "Body text.\n" {
		t.Fatalf("body want %q got %q", "Body text.\n", parts[1])
	}

	var fm hugoFrontMatter
	if err := yaml.Unmarshal([]byte(parts[0]), &fm); err != nil {
		t.Fatalf("front matter is not valid yaml: %v", err)
	}
	if fm.Title != post.Title || fm.Author != models.BotAuthor {
		t.Fatalf("unexpected front matter: %#v", fm)
	}
	if fm.Date != "2024-01-02T03:04:05Z" || fm.Lastmod != "2024-01-02T04:04:05Z" {
		t.Fatalf("unexpected dates: date=%s lastmod=%s", fm.Date, fm.Lastmod)
	}
	if fm.Draft {
		t.Fatalf("exports are published, draft should be false")
	}
	if fm.Slug != "understanding-artificial-intelligence---bot-generated" {
		t.Fatalf("unexpected slug %q", fm.Slug)
	}
	if len(fm.Tags) != 1 || fm.Tags[0] != "bot" {
		t.Fatalf("bot posts should be tagged bot, got %v", fm.Tags)
	}
}

func TestRenderHugoMarkdownHumanPost(t *testing.T) {
	post := models.Post{
		ID:        1,
		Title:     "Plain: a title with a colon",
		Content:   "C",
		Author:    models.DefaultAuthor,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	out, err := RenderHugoMarkdown(post)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	header := strings.SplitN(strings.TrimPrefix(string(out), "---\n"), "---\n\n", 2)[0]
	if strings.Contains(header, "lastmod") || strings.Contains(header, "tags") {
		t.Fatalf("unset optional keys should be omitted: %q", header)
	}
	var fm hugoFrontMatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		t.Fatalf("front matter is not valid yaml: %v", err)
	}
	if fm.Title != post.Title {
		t.Fatalf("title should survive yaml quoting, got %q", fm.Title)
	}
}
