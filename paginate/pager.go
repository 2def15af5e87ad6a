package paginate

// Pager tracks a bounded current-page index over a computed page sequence.
// Moves past either end are no-ops, which lets callers disable navigation
// controls off AtStart/AtEnd without guarding every transition.
type Pager struct {
	pages []Page
	index int
}

// NewPager wraps pages in a Pager positioned at the first page. A nil or
// empty slice is normalized to the single fallback page so a Pager always
// has a current page.
func NewPager(pages []Page) *Pager {
	if len(pages) == 0 {
		pages = []Page{{Kind: KindText, Text: FallbackText}}
	}
	return &Pager{pages: pages}
}

// Current returns the page at the current index.
func (p *Pager) Current() Page { return p.pages[p.index] }

// Index returns the zero-based current page index.
func (p *Pager) Index() int { return p.index }

// Len returns the total page count.
func (p *Pager) Len() int { return len(p.pages) }

// Next advances one page. At the last page it does nothing.
func (p *Pager) Next() {
	if p.index < len(p.pages)-1 {
		p.index++
	}
}

// Prev retreats one page. At the first page it does nothing.
func (p *Pager) Prev() {
	if p.index > 0 {
		p.index--
	}
}

// Goto jumps to index i, clamped into [0, Len()-1].
func (p *Pager) Goto(i int) {
	switch {
	case i < 0:
		p.index = 0
	case i >= len(p.pages):
		p.index = len(p.pages) - 1
	default:
		p.index = i
	}
}

// AtStart reports whether the pager is on the first page.
func (p *Pager) AtStart() bool { return p.index == 0 }

// AtEnd reports whether the pager is on the last page.
func (p *Pager) AtEnd() bool { return p.index == len(p.pages)-1 }
