package bookforge

import (
	"strings"
	"time"
)

// BookSpec is the user-supplied request a generation run starts from.
type BookSpec struct {
	Prompt       string `json:"prompt"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Author       string `json:"author"`
	Tone         string `json:"tone"`
	ChapterCount int    `json:"chapterCount"`
	WordTarget   int    `json:"wordTarget"`
	Continuity   bool   `json:"continuity"`
	CoverArt     bool   `json:"coverArt"`
}

// Book represents the complete generated work.
type Book struct {
	Title           string    `json:"title"`
	Subtitle        string    `json:"subtitle"`
	Author          string    `json:"author"`
	Tone            string    `json:"tone"`
	Preface         string    `json:"preface"`
	TableOfContents string    `json:"tableOfContents"`
	Chapters        []Chapter `json:"chapters"`
	FrontCover      string    `json:"frontCover,omitempty"` // base64 PNG
	BackCover       string    `json:"backCover,omitempty"`  // base64 PNG
	OriginalPrompt  string    `json:"originalPrompt"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Chapter is a single outlined chapter and, once generated, its prose.
type Chapter struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Text    string `json:"text"`
	Done    bool   `json:"done"`
}

// Outline returns the chapter's outline entry in the same markdown shape the
// outline generator emits, used when prompting for the chapter's prose.
func (c *Chapter) Outline() string {
	val := "## " + c.Title + "\n"
	val += "Summary: " + c.Summary + "\n"
	return val
}

// Completed reports how many chapters have generated prose.
func (b *Book) Completed() int {
	n := 0
	for i := range b.Chapters {
		if b.Chapters[i].Done {
			n++
		}
	}
	return n
}

// excerptLimit bounds how much prior-chapter text is fed back into the next
// chapter's prompt when continuity is on.
const excerptLimit = 2000

// tailExcerpt returns at most excerptLimit characters from the end of text,
// cut forward to a word boundary.
func tailExcerpt(text string) string {
	if len(text) <= excerptLimit {
		return text
	}
	tail := text[len(text)-excerptLimit:]
	if i := strings.IndexAny(tail, " \n"); i >= 0 && i < len(tail)-1 {
		tail = tail[i+1:]
	}
	return tail
}
