package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/opd-ai/bookforge/export"
	"github.com/opd-ai/bookforge/paginate"
)

var exportFlags struct {
	format   string
	title    string
	subtitle string
	author   string
	output   string
	paged    bool
}

var exportCmd = &cobra.Command{
	Use:   "export [book.md]",
	Short: "Export an assembled markdown book to pdf, docx, html, or md",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading book: %w", err)
		}
		document := string(data)

		title := exportFlags.title
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}
		meta := export.Metadata{
			Title:    title,
			Subtitle: exportFlags.subtitle,
			Author:   exportFlags.author,
		}

		var pages []paginate.Page
		if exportFlags.paged {
			pages = paginate.Paginate(document, paginate.Options{})
		}

		file, err := export.Export(export.Format(exportFlags.format), document, meta, pages)
		if err != nil {
			return err
		}

		outDir := exportFlags.output
		if outDir == "" {
			outDir = filepath.Dir(args[0])
		}
		path, err := export.WriteFile(file, outDir)
		if err != nil {
			return err
		}
		log.Info().Str("file", path).Msg("export written")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlags.format, "format", "f", "pdf", "Output format: pdf, docx, html, md")
	exportCmd.Flags().StringVarP(&exportFlags.title, "title", "t", "", "Book title (default: input filename)")
	exportCmd.Flags().StringVar(&exportFlags.subtitle, "subtitle", "", "Book subtitle")
	exportCmd.Flags().StringVarP(&exportFlags.author, "author", "a", "", "Author name")
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "Output directory (default: alongside input)")
	exportCmd.Flags().BoolVar(&exportFlags.paged, "paged", false, "PDF only: one PDF page per display page")
}
