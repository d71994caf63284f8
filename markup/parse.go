package markup

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

var ErrParse = errors.New("markup parse error")

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

func IsVoid(tag string) bool {
	return voidElements[tag]
}

// Parse builds the element tree of d as written: no elements are
// synthesized, unmatched end tags are ignored and elements left open at
// the end of input are closed.  The result is a fragment.
func Parse(d []byte) (*Element, error) {
	root := Fragment()
	stack := []*Element{root}
	z := html.NewTokenizer(bytes.NewReader(d))
	for {
		tt := z.Next()
		top := stack[len(stack)-1]
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return root, nil
			}
			return nil, fmt.Errorf("%w: %w", ErrParse, z.Err())
		case html.TextToken:
			tok := z.Token()
			n := len(top.Children)
			if n > 0 && top.Children[n-1].Type == TextNode {
				top.Children[n-1].Text += tok.Data
				continue
			}
			top.Children = append(top.Children, Text(tok.Data))
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			el := &Element{Type: ElementNode, Tag: tok.Data}
			for _, a := range tok.Attr {
				el.Attrs = append(el.Attrs, A(a.Key, a.Val))
			}
			top.Children = append(top.Children, el)
			if tt == html.StartTagToken && !IsVoid(tok.Data) {
				stack = append(stack, el)
			}
		case html.EndTagToken:
			tok := z.Token()
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Tag == tok.Data {
					stack = stack[:i]
					break
				}
			}
		}
	}
}
