package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	bookforge "github.com/opd-ai/bookforge/src"
	"github.com/opd-ai/bookforge/store"
)

// generationTimeout bounds one full book run, covers included.
const generationTimeout = 30 * time.Minute

// GenerateBook runs the full pipeline for one session: outline, preface,
// chapters in order, cover art, then persistence. Steps run strictly
// sequentially; the first failure aborts the remainder. The draft blob is
// saved after each step so an interrupted run can resume.
func GenerateBook(progress *GenerationProgress, cfg bookforge.Config, spec bookforge.BookSpec, st *store.Store) error {
	client := bookforge.NewClaudeClient(cfg.ClaudeAPIKey)

	ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
	defer cancel()

	var book bookforge.Book

	// checkpoint publishes a snapshot for the HTTP handlers and persists the
	// draft, so readers and a resumed run both see whole completed steps.
	checkpoint := func() {
		progress.SetBook(&book)
		if st == nil {
			return
		}
		if err := st.SaveDraft(store.Draft{Spec: spec, Book: book}); err != nil {
			progress.SendUpdate(fmt.Sprintf("Warning: could not save draft: %v", err))
		}
	}

	steps := []struct {
		name     string
		function func() error
	}{
		{
			name: "Generating outline",
			function: func() error {
				progress.SendUpdate("Generating the outline...")
				var err error
				book, err = bookforge.GenerateOutline(ctx, client, spec, progress)
				if err == nil {
					checkpoint()
				}
				return err
			},
		},
		{
			name: "Writing preface",
			function: func() error {
				progress.SendUpdate("Writing the preface...")
				err := bookforge.GeneratePreface(ctx, client, spec, &book, progress)
				checkpoint()
				return err
			},
		},
		{
			name: "Writing chapters",
			function: func() error {
				progress.SendUpdate("Writing the chapters...")
				err := bookforge.GenerateChapters(ctx, client, spec, &book, progress)
				checkpoint()
				return err
			},
		},
		{
			name: "Creating cover art",
			function: func() error {
				if !spec.CoverArt {
					return nil
				}
				images := cfg.ImageBackend()
				if images == nil {
					progress.SendUpdate("No image backend configured, skipping cover art")
					return nil
				}
				progress.SendUpdate("Creating cover art...")
				err := bookforge.GenerateCoverArt(ctx, images, &book, true, progress)
				checkpoint()
				return err
			},
		},
		{
			name: "Saving book",
			function: func() error {
				progress.SendUpdate("Saving book files...")
				if st != nil {
					if err := st.AppendHistory(book); err != nil {
						return err
					}
					if err := st.ClearDraft(); err != nil {
						return err
					}
				}
				return bookforge.SaveToFiles(&book, filepath.Join(cfg.OutputDir, progress.SessionID))
			},
		},
	}

	for _, step := range steps {
		select {
		case <-ctx.Done():
			return fmt.Errorf("generation timed out during %s", step.name)
		default:
			if err := step.function(); err != nil {
				progress.SendUpdate(fmt.Sprintf("Error during %s: %v", step.name, err))
				return fmt.Errorf("failed during %s: %w", step.name, err)
			}
		}
	}

	progress.SetBook(&book)
	progress.SendUpdate("Book generation completed successfully!")
	return nil
}
