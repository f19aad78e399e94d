package render

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ironsheep/prime-image/internal/digits"
)

const pageStyle = `body{background:#111;color:#ddd;font-family:monospace;margin:2em}
table{border-collapse:collapse}
td{width:1.1em;height:1.1em;text-align:center;font-size:11px;padding:0}
.num{word-break:break-all;max-width:60em;font-size:10px;color:#999}`

// HTMLOptions controls the generated page.
type HTMLOptions struct {
	// Title is used for the document title and heading.
	Title string

	// Caption is an optional line shown under the heading, such as the
	// search statistics.
	Caption string
}

// HTML writes a standalone page containing the grid as a shaded table and the
// full number underneath.
func HTML(w io.Writer, seq digits.Sequence, width, height int, opts HTMLOptions) error {
	grid, err := rows(seq, width, height)
	if err != nil {
		return err
	}
	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("%d-digit prime", seq.Len())
	}

	table := element(atom.Table)
	for _, row := range grid {
		tr := element(atom.Tr)
		for _, d := range row {
			td := element(atom.Td, html.Attribute{
				Key: "style",
				Val: fmt.Sprintf("background:%s;color:%s", Shade(d).Hex(), Ink(d).Hex()),
			})
			td.AppendChild(text(string(rune('0' + d))))
			tr.AppendChild(td)
		}
		table.AppendChild(tr)
	}

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	titleEl := element(atom.Title)
	titleEl.AppendChild(text(title))
	head.AppendChild(titleEl)
	style := element(atom.Style)
	style.AppendChild(text(pageStyle))
	head.AppendChild(style)

	body := element(atom.Body)
	h1 := element(atom.H1)
	h1.AppendChild(text(title))
	body.AppendChild(h1)
	if opts.Caption != "" {
		p := element(atom.P)
		p.AppendChild(text(opts.Caption))
		body.AppendChild(p)
	}
	body.AppendChild(table)
	num := element(atom.P, html.Attribute{Key: "class", Val: "num"})
	num.AppendChild(text(seq.String()))
	body.AppendChild(num)

	root := element(atom.Html, html.Attribute{Key: "lang", Val: "en"})
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
