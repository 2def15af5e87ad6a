// prompts.go
package bookforge

import (
	"fmt"
	"strings"
)

func getOutlinePrompt(spec BookSpec) string {
	prompt := `Create a book outline based on the following premise.
    For each chapter include:
    - Title
    - Summary (plot of the chapter and how it advances the whole story)

	The main storyline should extend from the first chapter to the last chapter.
	Maintain verisimilitude throughout the story.
	Avoid the direct use of copyrighted material and characters.

    Format as structured markdown.
	Do this without asking for confirmation or direction.
	Do not ask for confirmation in any way, just output the complete outline.
	This is essential.

	Follow this example format exactly for each consecutive chapter:`
	prompt += "```\n"
	prompt += `## Chapter: Number - Chapter Title
Summary: 5-8 sentence summary of the chapter's plot, setting, and mood. (All one line)

`
	prompt += "```\n"
	prompt += fmt.Sprintf("The book must have exactly %d chapters.\n", spec.ChapterCount)
	if spec.Tone != "" {
		prompt += fmt.Sprintf("The tone of the book is: %s.\n", spec.Tone)
	}
	return prompt
}

func getPrefacePrompt(spec BookSpec) string {
	return `Write a short preface for this book (3-5 paragraphs).
	Introduce the premise and mood without spoiling the story.
	Output only the preface text, no heading, no disclaimers or credits.
	Do this without asking for confirmation or direction.`
}

func getChapterPrompt(spec BookSpec, wordTarget int) string {
	prompt := fmt.Sprintf(`Write the full prose of this chapter, about %d words.
	Stay faithful to the chapter summary and the overall outline.
	Write polished narrative prose, not an outline or notes.
	Output only the chapter text without repeating the chapter heading.
	No disclaimers or credits are necessary.
	Do this without asking for confirmation or direction.
`, wordTarget)
	if spec.Tone != "" {
		prompt += fmt.Sprintf("	The tone of the book is: %s.\n", spec.Tone)
	}
	return prompt
}

func getCoverArtPrompt(b *Book, back bool) string {
	side := "front"
	if back {
		side = "back"
	}
	prompt := fmt.Sprintf("Book cover art, %s cover, no text or lettering. ", side)
	prompt += fmt.Sprintf("Theme: %s. ", b.OriginalPrompt)
	if b.Tone != "" {
		prompt += fmt.Sprintf("Mood: %s. ", b.Tone)
	}
	prompt += "Detailed illustration, dramatic lighting, high quality."
	return prompt
}

// parseOutline recovers chapters from the outline response by line-prefix
// scanning of the markdown format the prompt dictates.
func parseOutline(content string) []Chapter {
	var chapters []Chapter
	var current Chapter

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "## Chapter"):
			if current.Title != "" {
				chapters = append(chapters, current)
			}
			current = Chapter{
				Title: strings.TrimPrefix(line, "## "),
			}
		case strings.HasPrefix(line, "Summary:"):
			current.Summary = strings.TrimSpace(strings.TrimPrefix(line, "Summary:"))
		}
	}

	if current.Title != "" {
		chapters = append(chapters, current)
	}
	return chapters
}
