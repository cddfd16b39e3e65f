// Package document lays out and renders the contract and invoice PDFs.
package document

type BlockKind int

const (
	TextBlock BlockKind = iota
	FillInBlock
	SignatureBox
)

type Party int

const (
	PartyServiceProvider Party = iota + 1
	PartyClient
)

// Block is one positioned element of a page, in millimetres from the top
// left corner of an A4 page.
type Block struct {
	Kind   BlockKind
	Page   int
	X      float64
	Y      float64
	Width  float64
	Height float64
	Style  string
	Size   float64
	Align  string
	Text   string
	Party  Party
}

const (
	pageTop      = 20.0
	pageBottom   = 277.0
	marginLeft   = 20.0
	textWidth    = 170.0
	lineHeight   = 5.5
	fontSize     = 11.0
	captionSize  = 8.0
	fillInLift   = 1.2
	sectionSpace = 3.0
)

type pager struct {
	blocks []Block
	page   int
	y      float64
}

func newPager() *pager {
	return &pager{page: 1, y: pageTop}
}

// reserve moves to the next page when h millimetres do not fit.
func (p *pager) reserve(h float64) {
	if p.y+h > pageBottom {
		p.page++
		p.y = pageTop
	}
}

func (p *pager) space(h float64) {
	p.y += h
}

func (p *pager) text(style string, align string, s string) {
	p.paragraph(style, align, s, 1)
}

func (p *pager) paragraph(style string, align string, s string, lines int) {
	h := float64(lines) * lineHeight
	p.reserve(h)
	p.blocks = append(p.blocks, Block{
		Kind: TextBlock, Page: p.page, X: marginLeft, Y: p.y, Width: textWidth, Height: h,
		Style: style, Size: fontSize, Align: align, Text: s,
	})
	p.y += h
}

func (p *pager) caption(s string) {
	p.reserve(lineHeight)
	p.blocks = append(p.blocks, Block{
		Kind: TextBlock, Page: p.page, X: marginLeft, Y: p.y, Width: textWidth, Height: lineHeight,
		Size: captionSize, Align: "L", Text: s,
	})
	p.y += lineHeight
}

// blank draws lines of underscores and writes value over them. An empty
// value leaves the placeholder open for the other party.
func (p *pager) blank(value string, lines int) {
	h := float64(lines) * lineHeight
	p.reserve(h)
	if value != "" {
		p.blocks = append(p.blocks, Block{
			Kind: FillInBlock, Page: p.page, X: marginLeft, Y: p.y - fillInLift, Width: textWidth, Height: h,
			Size: fontSize, Align: "L", Text: value,
		})
	}
	for i := 0; i < lines; i++ {
		p.blocks = append(p.blocks, Block{
			Kind: TextBlock, Page: p.page, X: marginLeft, Y: p.y + float64(i)*lineHeight, Width: textWidth,
			Height: lineHeight, Size: fontSize, Align: "L", Text: placeholder,
		})
	}
	p.y += h
}

const placeholder = "______________________________________________________________________"
