package generator

import (
	"sync"
	"testing"

	bookforge "github.com/opd-ai/bookforge/src"
)

func TestSetBookSnapshots(t *testing.T) {
	gp := &GenerationProgress{SessionID: "s"}

	book := bookforge.Book{
		Title:   "Snapshot",
		Preface: "original preface",
		Chapters: []bookforge.Chapter{
			{Title: "One", Text: "original text", Done: true},
		},
	}
	gp.SetBook(&book)

	// The generation loop keeps writing to its working copy after publishing.
	book.Preface = "rewritten preface"
	book.Chapters[0].Text = "rewritten text"
	book.Chapters[0].Done = false

	got := gp.GetBook()
	if got.Preface != "original preface" {
		t.Errorf("Preface = %q, snapshot must not track later writes", got.Preface)
	}
	if got.Chapters[0].Text != "original text" || !got.Chapters[0].Done {
		t.Errorf("Chapters[0] = %+v, snapshot must not track later writes", got.Chapters[0])
	}
}

func TestSetBookConcurrentWithReaders(t *testing.T) {
	gp := &GenerationProgress{SessionID: "s"}

	book := bookforge.Book{
		Chapters: make([]bookforge.Chapter, 3),
	}
	gp.SetBook(&book)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			book.Preface = "p"
			book.Chapters[i%3].Text = "t"
			book.Chapters[i%3].Done = true
			gp.SetBook(&book)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			b := gp.GetBook()
			_ = b.Preface
			for j := range b.Chapters {
				_ = b.Chapters[j].Text
			}
		}
	}()
	wg.Wait()
}
