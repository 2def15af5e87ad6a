package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/russross/blackfriday/v2"
)

// htmlShell wraps the converted body in a standalone document. The style
// block keeps the output readable without any external assets.
const htmlShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: Georgia, serif; max-width: 42em; margin: 2em auto; padding: 0 1em; line-height: 1.6; }
h1, h2, h3 { font-family: Helvetica, Arial, sans-serif; }
header { text-align: center; margin-bottom: 3em; }
header p { color: #666; }
</style>
</head>
<body>
%s%s
</body>
</html>
`

// exportHTML converts the document with blackfriday and wraps it in a
// minimal standalone HTML page carrying the metadata header.
func exportHTML(document string, meta Metadata) (File, error) {
	body := blackfriday.Run([]byte(document))

	var header strings.Builder
	if meta.Title != "" || meta.Subtitle != "" || meta.Author != "" {
		header.WriteString("<header>\n")
		if meta.Title != "" {
			fmt.Fprintf(&header, "<h1>%s</h1>\n", html.EscapeString(meta.Title))
		}
		if meta.Subtitle != "" {
			fmt.Fprintf(&header, "<h2>%s</h2>\n", html.EscapeString(meta.Subtitle))
		}
		if meta.Author != "" {
			fmt.Fprintf(&header, "<p>by %s</p>\n", html.EscapeString(meta.Author))
		}
		header.WriteString("</header>\n")
	}

	page := fmt.Sprintf(htmlShell, html.EscapeString(meta.Title), header.String(), body)

	return File{
		Name:        filename(meta, FormatHTML),
		ContentType: "text/html; charset=utf-8",
		Data:        []byte(page),
	}, nil
}
