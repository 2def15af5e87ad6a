package bookforge

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"
)

// GenerateOutline asks the model for a chapter outline and parses it into a
// new Book. A response that yields no chapters is a failure.
func GenerateOutline(ctx context.Context, client Client, spec BookSpec, p Progressor) (Book, error) {
	pr := orNull(p)

	if spec.ChapterCount <= 0 {
		spec.ChapterCount = 8
	}

	response, err := client.SendMessage(ctx, getOutlinePrompt(spec),
		"This is the book premise, it is very important that you follow this premise: "+spec.Prompt)
	if err != nil {
		return Book{}, fmt.Errorf("generating outline: %w", err)
	}
	pr.UpdateOutput(response)

	book := Book{
		Title:           spec.Title,
		Subtitle:        spec.Subtitle,
		Author:          spec.Author,
		Tone:            spec.Tone,
		TableOfContents: response,
		OriginalPrompt:  spec.Prompt,
		CreatedAt:       time.Now(),
	}
	book.Chapters = parseOutline(response)
	if len(book.Chapters) == 0 {
		return Book{}, ErrNoChapters
	}
	return book, nil
}

// GeneratePreface fills in the book's preface text.
func GeneratePreface(ctx context.Context, client Client, spec BookSpec, book *Book, p Progressor) error {
	pr := orNull(p)

	prompt := fmt.Sprintf("The book premise:\n%s\n\nThe outline:\n%s\n", book.OriginalPrompt, book.TableOfContents)
	response, err := client.SendMessage(ctx, getPrefacePrompt(spec), prompt)
	if err != nil {
		return fmt.Errorf("generating preface: %w", err)
	}
	if response == "" {
		return ErrEmptyResponse
	}
	book.Preface = response
	pr.UpdateOutput("Preface complete")
	return nil
}

// GenerateChapters writes prose for every unfinished chapter, in strict
// chapter order. When continuity is requested the prompt carries an excerpt
// of the nearest preceding chapter that actually has prose, so a skipped or
// failed chapter does not feed garbage forward. The first error halts the
// remaining sequence.
func GenerateChapters(ctx context.Context, client Client, spec BookSpec, book *Book, p Progressor) error {
	pr := orNull(p)

	wordTarget := spec.WordTarget
	if wordTarget <= 0 {
		wordTarget = 1500
	}

	for i := range book.Chapters {
		if book.Chapters[i].Done {
			continue
		}

		prompt := fmt.Sprintf("Write this chapter:\n%s\n", book.Chapters[i].Outline())
		prompt += fmt.Sprintf("The complete outline of the book:\n%s\n", book.TableOfContents)
		if spec.Continuity {
			if excerpt := precedingExcerpt(book, i); excerpt != "" {
				prompt += fmt.Sprintf("For continuity, here is how the previous chapter ends:\n%s\n", excerpt)
			}
		}
		prompt += fmt.Sprintf("The original premise provided by a human for this book was:\n%s\n", book.OriginalPrompt)

		pr.UpdateOutput(fmt.Sprintf("Writing chapter %d of %d: %s", i+1, len(book.Chapters), book.Chapters[i].Title))

		response, err := client.SendMessage(ctx, getChapterPrompt(spec, wordTarget), prompt)
		if err != nil {
			return fmt.Errorf("generating chapter %d: %w", i+1, err)
		}
		if response == "" {
			return fmt.Errorf("generating chapter %d: %w", i+1, ErrEmptyResponse)
		}

		book.Chapters[i].Text = response
		book.Chapters[i].Done = true
	}
	return nil
}

// precedingExcerpt returns the continuity excerpt for chapter i: the tail of
// the nearest preceding completed chapter, or "" when none exists.
func precedingExcerpt(book *Book, i int) string {
	for j := i - 1; j >= 0; j-- {
		if book.Chapters[j].Done && book.Chapters[j].Text != "" {
			return tailExcerpt(book.Chapters[j].Text)
		}
	}
	return ""
}

// GenerateCoverArt produces the front cover and, when requested, the back
// cover, storing both base64 encoded.
func GenerateCoverArt(ctx context.Context, images ImageClient, book *Book, withBack bool, p Progressor) error {
	pr := orNull(p)

	pr.UpdateOutput("Generating front cover...")
	front, err := images.ImageGenerate(ctx, getCoverArtPrompt(book, false), 0, 0, pr)
	if err != nil {
		return fmt.Errorf("generating front cover: %w", err)
	}
	book.FrontCover = base64.StdEncoding.EncodeToString(front)

	if withBack {
		pr.UpdateOutput("Generating back cover...")
		back, err := images.ImageGenerate(ctx, getCoverArtPrompt(book, true), 0, 0, pr)
		if err != nil {
			return fmt.Errorf("generating back cover: %w", err)
		}
		book.BackCover = base64.StdEncoding.EncodeToString(back)
	}
	return nil
}
