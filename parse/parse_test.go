package parse

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/transdoc/encode"
	"github.com/signadot/transdoc/filter"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/markup"
)

func mustNode(t *testing.T, s string) *ir.Node {
	t.Helper()
	y, err := ir.FromJSON([]byte(s))
	if err != nil {
		t.Fatalf("%s: %v", s, err)
	}
	return y
}

func checkEqual(t *testing.T, want, got *ir.Node) {
	t.Helper()
	if ir.Equal(want, got) {
		return
	}
	diff := cmp.Diff(string(ir.ToJSONIndent(want, "  ")), string(ir.ToJSONIndent(got, "  ")))
	t.Errorf("(-want +got):\n%s", diff)
}

func quietLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

var roundTripDocs = []string{
	`{"_type":"post","_id":"p1","_rev":"r1","title":"Hi & <bye>","tags":["a","b"],"seo":{"_type":"seo","description":"D"}}`,
	`{
	"_type": "post", "_id": "p2",
	"body": [
		{"_type": "block", "_key": "b1", "style": "h1", "markDefs": [], "children": [{"_type": "span", "_key": "9c2e4f1a", "text": "Title", "marks": []}]},
		{"_type": "block", "_key": "b2", "style": "normal",
		 "markDefs": [{"_type": "link", "_key": "m1", "href": "https://x"}],
		 "children": [
			{"_type": "span", "_key": "a71d03be", "text": "Hello ", "marks": []},
			{"_type": "span", "_key": "f05c6b2e", "text": "world", "marks": ["strong", "em"]},
			{"_type": "span", "_key": "3e8d1c77", "text": "link", "marks": ["m1"]},
			{"_type": "span", "_key": "d4b29a60", "text": "two\nlines", "marks": []},
			{"_type": "span", "_key": "77aa0e12", "text": " and more", "marks": []}
		 ]},
		{"_type": "block", "_key": "l1", "style": "normal", "listItem": "bullet", "level": 1, "markDefs": [], "children": [{"_type": "span", "_key": "60f1e2d3", "text": "one", "marks": []}]},
		{"_type": "block", "_key": "l2", "style": "normal", "listItem": "bullet", "level": 2, "markDefs": [], "children": [{"_type": "span", "_key": "0be4c5a1", "text": "two", "marks": []}]},
		{"_type": "block", "_key": "n1", "style": "h2", "listItem": "number", "level": 1, "markDefs": [], "children": [{"_type": "span", "_key": "c18f7e90", "text": "first", "marks": []}]},
		{"_type": "block", "_key": "q1", "style": "blockquote", "markDefs": [], "children": [{"_type": "span", "_key": "e2a3b4c5", "text": "quote", "marks": []}]},
		{"_type": "block", "_key": "u1", "style": "custom1", "markDefs": [], "children": [{"_type": "span", "_key": "5d6e7f80", "text": "odd", "marks": []}]},
		{"_type": "block", "_key": "i1", "style": "normal", "markDefs": [], "children": [
			{"_type": "span", "_key": "b7c8d9e0", "text": "see ", "marks": []},
			{"_type": "childObject", "_key": "c1", "caption": "inline"},
			{"_type": "span", "_key": "1a2b3c4d", "text": " after", "marks": []}
		]}
	],
	"sections": [
		{"_type": "section", "_key": "s1", "heading": "H1", "items": ["x", "y"]},
		{"_type": "section", "_key": "s2", "heading": "H2", "meta": {"_type": "meta", "note": "n"}}
	]
}`,
	`{
	"_type": "post", "_id": "p3",
	"grid": [["a", "b"], ["c"], [{"_type": "cell", "_key": "c1", "label": "d"}]],
	"ref": {"_type": "thing", "_id": "ref-id", "label": "x"},
	"items": [{"_type": "thing", "_key": "k1", "_id": "other-id", "label": "y"}],
	"lead": {"_type": "block", "_key": "ld", "style": "h2", "markDefs": [], "children": [{"_type": "span", "_key": "e9", "text": "Lead", "marks": []}]},
	"step": {"_type": "block", "_key": "st", "style": "normal", "listItem": "number", "level": 1, "markDefs": [], "children": [{"_type": "span", "_key": "f1", "text": "Step", "marks": []}]}
}`,
}

func TestRoundTrip(t *testing.T) {
	for _, in := range roundTripDocs {
		doc := mustNode(t, in)
		d, err := encode.Serialize(doc)
		if err != nil {
			t.Fatal(err)
		}
		got, err := Parse([]byte(d.Content))
		if err != nil {
			t.Fatal(err)
		}
		checkEqual(t, doc, got)
	}
}

func TestRoundTripFieldLevel(t *testing.T) {
	doc := mustNode(t, `{
		"_type": "page", "_id": "fl1",
		"title": {"_type": "localeString", "en": "Hello", "es": "Hola"},
		"slices": [{"_type": "slice", "_key": "s1", "heading": {"en": "H", "es": "X"}}],
		"pageFields": {"name": {"en": "N", "de": "D"}}
	}`)
	d, err := encode.Serialize(doc, encode.EncodeLevel(encode.FieldLevel))
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse([]byte(d.Content))
	if err != nil {
		t.Fatal(err)
	}
	checkEqual(t, filter.LanguageObjects(doc, "en"), got)
}

func TestNoiseTolerance(t *testing.T) {
	in := `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="_id" content="p1">
    <meta name="_type" content="post">
    <meta name="version" content="3">
  </head>
  <body>
    <div class="post" id="p1" data-type="object">
      <!-- translator note -->
      <span class="title">Hola&nbsp;mundo</span>
      <font>stray</font>
      <div class="body" data-type="array">
        <p id="b1">Un <font color="red">texto</font></p>
        <table><tr><td>x</td></tr></table>
      </div>
    </div>
  </body>
</html>`
	buf := &bytes.Buffer{}
	got, err := Parse([]byte(in), Logger(slog.New(slog.NewTextHandler(buf, nil))))
	if err != nil {
		t.Fatal(err)
	}
	want := mustNode(t, `{
		"_type": "post", "_id": "p1", "title": "Hola mundo",
		"body": [{"_type": "block", "_key": "b1", "style": "normal", "markDefs": [],
			"children": [{"_type": "span", "_key": "b1-0", "text": "Un texto", "marks": []}]}]
	}`)
	checkEqual(t, want, got)
	if !strings.Contains(buf.String(), "skipping unrecognized") {
		t.Errorf("noise not logged: %s", buf.String())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in  string
		err error
	}{
		{in: ``, err: ErrNoBody},
		{in: `<div class="post" data-type="object"></div>`, err: ErrNoBody},
		{in: `<html><head><meta name="version" content="4"></head><body></body></html>`, err: ErrVersion},
		{in: `<html><head><meta name="version" content="x"></head><body></body></html>`, err: ErrVersion},
	}
	for _, tt := range tests {
		_, err := Parse([]byte(tt.in), Logger(quietLog()))
		if !errors.Is(err, tt.err) {
			t.Errorf("%q: got %v want %v", tt.in, err, tt.err)
		}
	}
}

func TestEmptyBody(t *testing.T) {
	got, err := Parse([]byte(`<html><head><meta name="_id" content="e1"></head><body></body></html>`), Logger(quietLog()))
	if err != nil {
		t.Fatal(err)
	}
	checkEqual(t, mustNode(t, `{"_id":"e1"}`), got)
}

func TestCustomDeserializer(t *testing.T) {
	sers := encode.NewSerializers().With("callout", func(y *ir.Node, _ *encode.Context) (*markup.Element, error) {
		return markup.New("aside", markup.A("class", "callout"), markup.A("id", y.Key())).
			Append(markup.Text(y.StringField("text"))), nil
	})
	desers := NewDeserializers().With("callout", func(el *markup.Element, _ *Context) (*ir.Node, error) {
		return ir.FromKeyVals([]ir.KeyVal{
			{Key: "_type", Val: ir.FromString("callout")},
			{Key: "text", Val: ir.FromString(el.TextContent())},
		}), nil
	})
	doc := mustNode(t, `{
		"_type": "page", "_id": "c1",
		"note": {"_type": "callout", "_key": "k1", "text": "field"},
		"items": [{"_type": "callout", "_key": "k2", "text": "item"}]
	}`)
	d, err := encode.Serialize(doc, encode.WithSerializers(sers))
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse([]byte(d.Content), WithDeserializers(desers))
	if err != nil {
		t.Fatal(err)
	}
	checkEqual(t, doc, got)

	// without the deserializer the custom markup is skipped
	got, err = Parse([]byte(d.Content), Logger(quietLog()))
	if err != nil {
		t.Fatal(err)
	}
	if got.Has("note") {
		t.Errorf("unexpected note: %s", ir.ToJSON(got))
	}
}

func TestFailingDeserializerIsSkipped(t *testing.T) {
	buf := &bytes.Buffer{}
	desers := NewDeserializers().With("bad", func(*markup.Element, *Context) (*ir.Node, error) {
		panic("boom")
	})
	in := `<html><head></head><body><div class="post" data-type="object">` +
		`<span class="title">T</span>` +
		`<div class="items" data-type="array"><div class="bad" id="x"></div><span>ok</span></div>` +
		`</div></body></html>`
	got, err := Parse([]byte(in), WithDeserializers(desers), Logger(slog.New(slog.NewTextHandler(buf, nil))))
	if err != nil {
		t.Fatal(err)
	}
	checkEqual(t, mustNode(t, `{"_type":"post","title":"T","items":["ok"]}`), got)
	if !strings.Contains(buf.String(), "deserializer panicked") {
		t.Errorf("missing log: %s", buf.String())
	}
}

func TestBlockRules(t *testing.T) {
	highlight := BlockRule{
		Name:  "highlight",
		Match: func(el *markup.Element) bool { return el.Tag == "mark" },
		Deserialize: func(el *markup.Element, next Next) (*ir.Node, error) {
			md := ir.FromKeyVals([]ir.KeyVal{
				{Key: "_type", Val: ir.FromString("highlight")},
				{Key: "_key", Val: ir.FromString(el.ID())},
			})
			return Annotation(md, next(el.Children)), nil
		},
	}
	figure := BlockRule{
		Name:  "figure",
		Match: func(el *markup.Element) bool { return el.Tag == "figure" },
		Deserialize: func(el *markup.Element, _ Next) (*ir.Node, error) {
			return ir.FromKeyVals([]ir.KeyVal{
				{Key: "_type", Val: ir.FromString("figure")},
				{Key: "caption", Val: ir.FromString(el.TextContent())},
			}), nil
		},
	}
	in := `<html><head></head><body><div class="post" data-type="object"><div class="body" data-type="array">` +
		`<p id="b1">a <mark id="h1">b <em>c</em></mark></p>` +
		`<figure id="f1">cap</figure>` +
		`</div></div></body></html>`
	got, err := Parse([]byte(in), WithRules(highlight, figure))
	if err != nil {
		t.Fatal(err)
	}
	want := mustNode(t, `{"_type":"post","body":[
		{"_type":"block","_key":"b1","style":"normal",
		 "markDefs":[{"_type":"highlight","_key":"h1"}],
		 "children":[
			{"_type":"span","_key":"b1-0","text":"a ","marks":[]},
			{"_type":"span","_key":"b1-1","text":"b ","marks":["h1"]},
			{"_type":"span","_key":"b1-2","text":"c","marks":["h1","em"]}
		 ]},
		{"_key":"f1","_type":"figure","caption":"cap"}
	]}`)
	checkEqual(t, want, got)
}

func TestSpanKeys(t *testing.T) {
	in := `<html><head></head><body><div class="post" data-type="object"><div class="body" data-type="array">` +
		`<p id="b1"><span data-key="k1">a </span><span data-key="k1"><em>b</em></span> c` +
		`<span data-key="k2"><span class="default-serialized-annotation" id="m1" data-type="link">` +
		`<span class="default-serialized-children">d</span>` +
		`<div class="link" data-type="object"><span class="href">https://x</span></div></span></span></p>` +
		`</div></div></body></html>`
	got, err := Parse([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	want := mustNode(t, `{"_type":"post","body":[
		{"_type":"block","_key":"b1","style":"normal",
		 "markDefs":[{"_type":"link","_key":"m1","href":"https://x"}],
		 "children":[
			{"_type":"span","_key":"k1","text":"a ","marks":[]},
			{"_type":"span","_key":"b1-1","text":"b","marks":["em"]},
			{"_type":"span","_key":"b1-2","text":" c","marks":[]},
			{"_type":"span","_key":"k2","text":"d","marks":["m1"]}
		 ]}
	]}`)
	checkEqual(t, want, got)
}

func TestSanitize(t *testing.T) {
	in := `<html><head><meta name="_id" content="s1"></head><body><div class="post" data-type="object">` +
		`<span class="title" onclick="x()">T<script>alert(1)</script></span></div></body></html>`
	got, err := Parse([]byte(in), Sanitize(true))
	if err != nil {
		t.Fatal(err)
	}
	checkEqual(t, mustNode(t, `{"_type":"post","_id":"s1","title":"T"}`), got)
}
