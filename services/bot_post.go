package services

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/botblog/backend/models"
)

// BotTopics is the fixed list the generator draws from.
var BotTopics = []string{
	"The Future of Technology",
	"Understanding Artificial Intelligence",
	"Web Development Best Practices",
	"The Power of Automation",
	"Cloud Computing Trends",
}

const (
	botTitleSuffix = " - Bot Generated"
	// month/day/year, 12 hour clock
	humanTimeLayout = "1/2/2006, 3:04:05 PM"
)

// BotPostGenerator fabricates posts about one of BotTopics.
type BotPostGenerator struct {
	now  func() time.Time
	pick func(n int) int
}

// NewBotPostGenerator returns a generator using the wall clock and math/rand/v2.
func NewBotPostGenerator() *BotPostGenerator {
	return NewBotPostGeneratorWith(time.Now, rand.IntN)
}

// NewBotPostGeneratorWith lets callers pin the clock and the topic picker.
// pick receives len(BotTopics) and must return an index in [0, n).
func NewBotPostGeneratorWith(now func() time.Time, pick func(n int) int) *BotPostGenerator {
	if now == nil {
		now = time.Now
	}
	if pick == nil {
		pick = rand.IntN
	}
	return &BotPostGenerator{now: now, pick: pick}
}

// Generate builds an unsaved bot post. The store assigns the id.
//
// Returns:
//   - A post with Bot set, author BotAuthor, title "<topic> - Bot Generated"
//     and content naming the topic and the local generation time.
func (g *BotPostGenerator) Generate() models.Post {
	now := g.now()
	topic := BotTopics[g.pick(len(BotTopics))]

	return models.Post{
		Title:     topic + botTitleSuffix,
		Content:   BotContent(topic, now),
		Author:    models.BotAuthor,
		CreatedAt: models.Stamp(now),
		Bot:       true,
	}
}

// BotContent renders the body of a generated post.
func BotContent(topic string, at time.Time) string {
	return fmt.Sprintf(
		"This is an automatically generated post about %s. "+
			"Blog automation allows for consistent content creation and scheduling. "+
			"This post was created by the botblog system at %s.",
		strings.ToLower(topic),
		at.Format(humanTimeLayout),
	)
}
