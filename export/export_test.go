package export

import (
	"errors"
	"strings"
	"testing"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"My Book", "my_book"},
		{"Hello, World!", "hello_world"},
		{"  spaced   out  ", "spaced_out"},
		{"UPPER", "upper"},
		{"---", "book"},
		{"", "book"},
		{"Éclair", "clair"},
		{"book 2: the sequel", "book_2_the_sequel"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := Slug(tt.title); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestExport_Markdown(t *testing.T) {
	doc := "## Chapter 1: Intro\n\nHello world"
	meta := Metadata{Title: "My Book", Author: "A. Writer"}

	file, err := Export(FormatMarkdown, doc, meta, nil)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	if file.Name != "my_book.md" {
		t.Errorf("Name = %q, want %q", file.Name, "my_book.md")
	}
	body := string(file.Data)
	for _, want := range []string{"# My Book", "### by A. Writer", "Hello world", "## Chapter 1: Intro"} {
		if !strings.Contains(body, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if !strings.HasSuffix(body, doc) {
		t.Error("document text was not passed through unchanged")
	}
}

func TestExport_MarkdownNoMetadata(t *testing.T) {
	doc := "plain body"
	file, err := Export(FormatMarkdown, doc, Metadata{}, nil)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if string(file.Data) != doc {
		t.Errorf("Data = %q, want document byte for byte when no metadata set", file.Data)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := Export(Format("epub"), "doc", Metadata{Title: "x"}, nil)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestExport_ContentTypes(t *testing.T) {
	doc := "## Heading\n\nbody text\n"
	meta := Metadata{Title: "Types"}

	tests := []struct {
		format Format
		want   string
	}{
		{FormatMarkdown, "text/markdown"},
		{FormatHTML, "text/html"},
		{FormatDOCX, "application/vnd.openxmlformats"},
		{FormatPDF, "application/pdf"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			file, err := Export(tt.format, doc, meta, nil)
			if err != nil {
				t.Fatalf("Export returned error: %v", err)
			}
			if !strings.HasPrefix(file.ContentType, tt.want) {
				t.Errorf("ContentType = %q, want prefix %q", file.ContentType, tt.want)
			}
			if len(file.Data) == 0 {
				t.Error("empty export data")
			}
			if file.Name != "types."+string(tt.format) {
				t.Errorf("Name = %q, want %q", file.Name, "types."+string(tt.format))
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	f := File{Name: "out.md", ContentType: "text/markdown", Data: []byte("hi")}

	path, err := WriteFile(f, dir)
	if err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	if !strings.HasSuffix(path, "out.md") {
		t.Errorf("path = %q, want suffix out.md", path)
	}
}
