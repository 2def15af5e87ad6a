package bookforge

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
)

// SaveToFiles writes the assembled book, each chapter, and any cover art
// into outputDir.
func SaveToFiles(book *Book, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	bookPath := filepath.Join(outputDir, "Book.md")
	if err := os.WriteFile(bookPath, []byte(AssembleDocument(book)), 0o644); err != nil {
		return fmt.Errorf("saving book: %w", err)
	}

	tocPath := filepath.Join(outputDir, "Outline.md")
	if err := os.WriteFile(tocPath, []byte(book.TableOfContents), 0o644); err != nil {
		return fmt.Errorf("saving outline: %w", err)
	}

	for i := range book.Chapters {
		chapter := &book.Chapters[i]
		if chapter.Text == "" {
			continue
		}
		path := filepath.Join(outputDir, fmt.Sprintf("%02d_Chapter.md", i+1))
		content := "## " + chapter.Title + "\n\n" + chapter.Text + "\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("saving chapter %d: %w", i+1, err)
		}
	}

	if err := saveCover(book.FrontCover, filepath.Join(outputDir, "front_cover.png")); err != nil {
		return err
	}
	return saveCover(book.BackCover, filepath.Join(outputDir, "back_cover.png"))
}

func saveCover(encoded, path string) error {
	if encoded == "" {
		return nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decoding cover image: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("saving cover image: %w", err)
	}
	return nil
}
