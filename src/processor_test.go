package bookforge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// scriptedClient returns canned responses in call order and records each
// user prompt it was sent.
type scriptedClient struct {
	responses []string
	errAt     int // 1-based call index that fails, 0 for never
	calls     int
	prompts   []string
}

func (c *scriptedClient) SendMessage(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.calls++
	c.prompts = append(c.prompts, userPrompt)
	if c.errAt != 0 && c.calls == c.errAt {
		return "", errors.New("model unavailable")
	}
	if c.calls > len(c.responses) {
		return "", errors.New("unexpected extra call")
	}
	return c.responses[c.calls-1], nil
}

const sampleOutline = `## Chapter: 1 - Departure
Summary: The hero leaves home.

## Chapter: 2 - Crossing
Summary: A border is crossed.

## Chapter: 3 - Arrival
Summary: The destination is reached.
`

func TestGenerateOutline(t *testing.T) {
	client := &scriptedClient{responses: []string{sampleOutline}}
	spec := BookSpec{Title: "Journey", Prompt: "a long trip", ChapterCount: 3}

	book, err := GenerateOutline(context.Background(), client, spec, nil)
	if err != nil {
		t.Fatalf("GenerateOutline: %v", err)
	}
	if len(book.Chapters) != 3 {
		t.Fatalf("got %d chapters, want 3", len(book.Chapters))
	}
	if book.TableOfContents != sampleOutline {
		t.Error("raw outline response should be kept on the book")
	}
	if book.OriginalPrompt != "a long trip" {
		t.Error("original premise should be kept on the book")
	}
	if book.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestGenerateOutlineNoChapters(t *testing.T) {
	client := &scriptedClient{responses: []string{"I cannot produce an outline."}}
	_, err := GenerateOutline(context.Background(), client, BookSpec{Prompt: "x"}, nil)
	if !errors.Is(err, ErrNoChapters) {
		t.Fatalf("err = %v, want ErrNoChapters", err)
	}
}

func TestGenerateChaptersSequential(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"Prose for chapter one.",
		"Prose for chapter two.",
		"Prose for chapter three.",
	}}
	book := &Book{
		TableOfContents: sampleOutline,
		Chapters:        parseOutline(sampleOutline),
	}

	err := GenerateChapters(context.Background(), client, BookSpec{Continuity: true}, book, nil)
	if err != nil {
		t.Fatalf("GenerateChapters: %v", err)
	}
	for i, c := range book.Chapters {
		if !c.Done || c.Text == "" {
			t.Errorf("chapter %d not completed: %+v", i, c)
		}
	}
	if book.Chapters[1].Text != "Prose for chapter two." {
		t.Error("responses must be assigned in chapter order")
	}

	// Chapter two's prompt should carry chapter one's ending.
	if !strings.Contains(client.prompts[1], "Prose for chapter one.") {
		t.Error("continuity excerpt missing from the second chapter's prompt")
	}
	if strings.Contains(client.prompts[0], "previous chapter ends") {
		t.Error("first chapter has no predecessor, no excerpt expected")
	}
}

func TestGenerateChaptersSkipsDone(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"Prose for chapter two.",
		"Prose for chapter three.",
	}}
	book := &Book{
		TableOfContents: sampleOutline,
		Chapters:        parseOutline(sampleOutline),
	}
	book.Chapters[0].Text = "Already written opening."
	book.Chapters[0].Done = true

	err := GenerateChapters(context.Background(), client, BookSpec{Continuity: true}, book, nil)
	if err != nil {
		t.Fatalf("GenerateChapters: %v", err)
	}
	if client.calls != 2 {
		t.Errorf("made %d calls, want 2 (first chapter already done)", client.calls)
	}
	if book.Chapters[0].Text != "Already written opening." {
		t.Error("completed chapter must not be regenerated")
	}
	// Continuity for the resumed chapter comes from the pre-existing prose.
	if !strings.Contains(client.prompts[0], "Already written opening.") {
		t.Error("resumed chapter's prompt should carry the completed predecessor's ending")
	}
}

func TestGenerateChaptersContinuitySkipsGaps(t *testing.T) {
	client := &scriptedClient{responses: []string{"Prose for chapter three."}}
	book := &Book{
		TableOfContents: sampleOutline,
		Chapters:        parseOutline(sampleOutline),
	}
	book.Chapters[0].Text = "First chapter prose."
	book.Chapters[0].Done = true
	// Chapter two marked done but with no prose, as after a cleared blob.
	book.Chapters[1].Done = true

	err := GenerateChapters(context.Background(), client, BookSpec{Continuity: true}, book, nil)
	if err != nil {
		t.Fatalf("GenerateChapters: %v", err)
	}
	if !strings.Contains(client.prompts[0], "First chapter prose.") {
		t.Error("continuity should reach past an empty chapter to real prose")
	}
}

func TestGenerateChaptersHaltsOnError(t *testing.T) {
	client := &scriptedClient{
		responses: []string{"Prose for chapter one."},
		errAt:     2,
	}
	book := &Book{
		TableOfContents: sampleOutline,
		Chapters:        parseOutline(sampleOutline),
	}

	err := GenerateChapters(context.Background(), client, BookSpec{}, book, nil)
	if err == nil {
		t.Fatal("expected error from failing chapter")
	}
	if !strings.Contains(err.Error(), "chapter 2") {
		t.Errorf("error should name the failing chapter: %v", err)
	}
	if !book.Chapters[0].Done {
		t.Error("chapter completed before the failure must stay done")
	}
	if book.Chapters[1].Done || book.Chapters[2].Done {
		t.Error("chapters at and after the failure must not be marked done")
	}
	if client.calls != 2 {
		t.Errorf("made %d calls, want 2 (halt on first error)", client.calls)
	}
}

func TestGeneratePreface(t *testing.T) {
	client := &scriptedClient{responses: []string{"A fine preface."}}
	book := &Book{OriginalPrompt: "premise", TableOfContents: sampleOutline}

	if err := GeneratePreface(context.Background(), client, BookSpec{}, book, nil); err != nil {
		t.Fatalf("GeneratePreface: %v", err)
	}
	if book.Preface != "A fine preface." {
		t.Errorf("Preface = %q", book.Preface)
	}
}

func TestGeneratePrefaceEmptyResponse(t *testing.T) {
	client := &scriptedClient{responses: []string{""}}
	book := &Book{}
	err := GeneratePreface(context.Background(), client, BookSpec{}, book, nil)
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

// fakeImages returns a fixed byte payload per call.
type fakeImages struct {
	calls int
	fail  bool
}

func (f *fakeImages) ImageGenerate(ctx context.Context, prompt string, width, height int, progress Progressor) ([]byte, error) {
	f.calls++
	if f.fail {
		return nil, ErrNoImage
	}
	return []byte(fmt.Sprintf("image-%d", f.calls)), nil
}

func TestGenerateCoverArt(t *testing.T) {
	images := &fakeImages{}
	book := &Book{OriginalPrompt: "premise"}

	if err := GenerateCoverArt(context.Background(), images, book, false, nil); err != nil {
		t.Fatalf("GenerateCoverArt: %v", err)
	}
	if book.FrontCover == "" {
		t.Error("front cover missing")
	}
	if book.BackCover != "" {
		t.Error("back cover generated without being requested")
	}
	if images.calls != 1 {
		t.Errorf("made %d image calls, want 1", images.calls)
	}
}

func TestGenerateCoverArtWithBack(t *testing.T) {
	images := &fakeImages{}
	book := &Book{OriginalPrompt: "premise"}

	if err := GenerateCoverArt(context.Background(), images, book, true, nil); err != nil {
		t.Fatalf("GenerateCoverArt: %v", err)
	}
	if book.FrontCover == "" || book.BackCover == "" {
		t.Error("both covers expected")
	}
	if images.calls != 2 {
		t.Errorf("made %d image calls, want 2", images.calls)
	}
}
