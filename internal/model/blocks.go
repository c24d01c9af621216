package model

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockKinds = map[atom.Atom]BlockKind{
	atom.P:          BlockParagraph,
	atom.H1:         BlockHeading,
	atom.H2:         BlockHeading,
	atom.H3:         BlockHeading,
	atom.H4:         BlockHeading,
	atom.H5:         BlockHeading,
	atom.H6:         BlockHeading,
	atom.Li:         BlockListItem,
	atom.Blockquote: BlockQuote,
	atom.Pre:        BlockCode,
}

// BlocksFromHTML splits an article body into content blocks. Text outside
// any block element becomes paragraphs of its own.
func BlocksFromHTML(body string) ([]ContentBlock, error) {
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	var blocks []ContentBlock
	var loose strings.Builder
	flushLoose := func() {
		if text := collapseSpace(loose.String()); text != "" {
			blocks = append(blocks, ContentBlock{Kind: BlockParagraph, Text: text})
		}
		loose.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
			if kind, ok := blockKinds[n.DataAtom]; ok {
				flushLoose()
				text := textOf(n)
				if kind != BlockCode {
					text = collapseSpace(text)
				}
				if strings.TrimSpace(text) != "" {
					blocks = append(blocks, ContentBlock{Kind: kind, Text: text})
				}
				return
			}
		}
		if n.Type == html.TextNode {
			loose.WriteString(n.Data)
			loose.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	flushLoose()

	return blocks, nil
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Br {
			sb.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
