package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/opd-ai/bookforge/export"
	bookforge "github.com/opd-ai/bookforge/src"
	"github.com/opd-ai/bookforge/store"
)

var generateFlags struct {
	title      string
	subtitle   string
	author     string
	tone       string
	chapters   int
	words      int
	continuity bool
	coverArt   bool
	dictate    bool
	formats    []string
}

var generateCmd = &cobra.Command{
	Use:   "generate [premise]",
	Short: "Generate a complete book from a premise",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		premise := ""
		if len(args) == 1 {
			premise = args[0]
		}
		if generateFlags.dictate {
			dictated, err := dictatePremise(cmd.Context())
			if err != nil {
				return err
			}
			premise = strings.TrimSpace(premise + " " + dictated)
		}
		if premise == "" {
			return fmt.Errorf("a premise is required (argument or --dictate)")
		}

		spec := bookforge.BookSpec{
			Prompt:       premise,
			Title:        generateFlags.title,
			Subtitle:     generateFlags.subtitle,
			Author:       generateFlags.author,
			Tone:         generateFlags.tone,
			ChapterCount: generateFlags.chapters,
			WordTarget:   generateFlags.words,
			Continuity:   generateFlags.continuity,
			CoverArt:     generateFlags.coverArt,
		}

		st, err := store.New(cfg.DataDir)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		client := bookforge.NewClaudeClient(cfg.ClaudeAPIKey)
		progress := consoleProgress{}

		book, err := bookforge.GenerateOutline(ctx, client, spec, progress)
		if err != nil {
			return err
		}
		if err := bookforge.GeneratePreface(ctx, client, spec, &book, progress); err != nil {
			return err
		}
		if err := st.SaveDraft(store.Draft{Spec: spec, Book: book}); err != nil {
			log.Warn().Err(err).Msg("could not save draft")
		}
		if err := bookforge.GenerateChapters(ctx, client, spec, &book, progress); err != nil {
			return err
		}
		if spec.CoverArt {
			if images := cfg.ImageBackend(); images != nil {
				if err := bookforge.GenerateCoverArt(ctx, images, &book, true, progress); err != nil {
					return err
				}
			} else {
				log.Warn().Msg("no image backend configured, skipping cover art")
			}
		}

		if err := st.AppendHistory(book); err != nil {
			return err
		}
		if err := st.ClearDraft(); err != nil {
			return err
		}

		outDir := filepath.Join(cfg.OutputDir, export.Slug(book.Title))
		if err := bookforge.SaveToFiles(&book, outDir); err != nil {
			return err
		}
		log.Info().Str("dir", outDir).Msg("book saved")

		doc := bookforge.AssembleDocument(&book)
		meta := export.Metadata{Title: book.Title, Subtitle: book.Subtitle, Author: book.Author}
		for _, f := range generateFlags.formats {
			file, err := export.Export(export.Format(f), doc, meta, nil)
			if err != nil {
				return fmt.Errorf("exporting %s: %w", f, err)
			}
			path, err := export.WriteFile(file, outDir)
			if err != nil {
				return err
			}
			log.Info().Str("file", path).Msg("export written")
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateFlags.title, "title", "t", "", "Book title (required)")
	generateCmd.Flags().StringVar(&generateFlags.subtitle, "subtitle", "", "Book subtitle")
	generateCmd.Flags().StringVarP(&generateFlags.author, "author", "a", "", "Author name")
	generateCmd.Flags().StringVar(&generateFlags.tone, "tone", "", "Narrative tone, e.g. 'dark comedy'")
	generateCmd.Flags().IntVar(&generateFlags.chapters, "chapters", 8, "Number of chapters")
	generateCmd.Flags().IntVar(&generateFlags.words, "words", 1500, "Word target per chapter")
	generateCmd.Flags().BoolVar(&generateFlags.continuity, "continuity", true, "Feed each chapter the end of the preceding completed chapter")
	generateCmd.Flags().BoolVar(&generateFlags.coverArt, "cover-art", false, "Generate front and back cover art")
	generateCmd.Flags().BoolVar(&generateFlags.dictate, "dictate", false, "Dictate the premise via the configured speech backend")
	generateCmd.Flags().StringSliceVar(&generateFlags.formats, "export", nil, "Formats to export after generation (pdf, docx, html, md)")
	generateCmd.MarkFlagRequired("title")
}

// dictatePremise captures dictated text until the speech session ends or
// the user presses enter.
func dictatePremise(ctx context.Context) (string, error) {
	rec, err := bookforge.DetectRecognizer()
	if err != nil {
		return "", fmt.Errorf("dictation not possible: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if err := rec.Start(ctx); err != nil {
		return "", fmt.Errorf("starting dictation: %w", err)
	}
	defer rec.Stop()

	fmt.Fprintln(os.Stderr, "Dictating premise; press enter to finish.")
	go func() {
		bufio.NewReader(os.Stdin).ReadString('\n')
		rec.Stop()
	}()

	var parts []string
	for fragment := range rec.Results() {
		parts = append(parts, fragment)
	}
	if err := rec.Err(); err != nil {
		return "", fmt.Errorf("dictation failed: %w", err)
	}
	return strings.Join(parts, " "), nil
}

// consoleProgress prints generation updates to the log.
type consoleProgress struct{}

func (consoleProgress) UpdateOutput(message string) {
	log.Info().Msg(message)
}
