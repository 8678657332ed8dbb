package services

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/botblog/backend/models"
	"go.yaml.in/yaml/v3"
)

var (
	slugStrip      = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
)

// hugoFrontMatter is the YAML header of a Hugo content file
type hugoFrontMatter struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Lastmod string   `yaml:"lastmod,omitempty"`
	Author  string   `yaml:"author"`
	Draft   bool     `yaml:"draft"`
	Slug    string   `yaml:"slug"`
	Tags    []string `yaml:"tags,omitempty"`
}

// Slugify converts text to a URL-friendly slug: lower case, only letters,
// digits and hyphens, whitespace runs collapsed to a single hyphen.
func Slugify(text string) string {
	slug := strings.ToLower(text)
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// PostSlug is the slug used for exports, falling back to the id when the
// title has no usable characters.
func PostSlug(post models.Post) string {
	if slug := Slugify(post.Title); slug != "" {
		return slug
	}
	return fmt.Sprintf("post-%d", post.ID)
}

// RenderHugoMarkdown renders a post as a Hugo content file
//
// Parameters:
//   - post: The post to export
//
// Returns:
//   - The file body: "---", YAML front matter, "---", a blank line, then the content
//   - error: If the front matter cannot be encoded
func RenderHugoMarkdown(post models.Post) ([]byte, error) {
	fm := hugoFrontMatter{
		Title:  post.Title,
		Date:   post.CreatedAt.UTC().Format(time.RFC3339),
		Author: post.Author,
		Draft:  false,
		Slug:   PostSlug(post),
	}
	if post.UpdatedAt != nil {
		fm.Lastmod = post.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if post.Bot {
		fm.Tags = []string{"bot"}
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	buf.WriteString(post.Content)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}
