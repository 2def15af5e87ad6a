package export

import (
	"strings"
	"testing"
)

func TestExportHTML(t *testing.T) {
	tests := []struct {
		name         string
		doc          string
		meta         Metadata
		wantContains []string
	}{
		{
			name: "full metadata header",
			doc:  "## Chapter One\n\nHello world",
			meta: Metadata{Title: "My Book", Subtitle: "A Tale", Author: "A. Writer"},
			wantContains: []string{
				"<!DOCTYPE html>",
				"<title>My Book</title>",
				"<h1>My Book</h1>",
				"<h2>A Tale</h2>",
				"by A. Writer",
				"<h2", // converted section heading
				"Chapter One",
				"Hello world",
				"<style>",
			},
		},
		{
			name:         "title escaping",
			doc:          "body",
			meta:         Metadata{Title: "Tom & <Jerry>"},
			wantContains: []string{"Tom &amp; &lt;Jerry&gt;"},
		},
		{
			name:         "no metadata",
			doc:          "plain paragraph",
			meta:         Metadata{},
			wantContains: []string{"<p>plain paragraph</p>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := exportHTML(tt.doc, tt.meta)
			if err != nil {
				t.Fatalf("exportHTML returned error: %v", err)
			}
			body := string(file.Data)
			for _, want := range tt.wantContains {
				if !strings.Contains(body, want) {
					t.Errorf("output missing %q", want)
				}
			}
		})
	}
}

func TestExportHTML_NoHeaderWithoutMetadata(t *testing.T) {
	file, err := exportHTML("body", Metadata{})
	if err != nil {
		t.Fatalf("exportHTML returned error: %v", err)
	}
	if strings.Contains(string(file.Data), "<header>") {
		t.Error("header block emitted with no metadata set")
	}
}
