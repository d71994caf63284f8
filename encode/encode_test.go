package encode

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/markup"
	"github.com/signadot/transdoc/schema"
)

func mustNode(t *testing.T, s string) *ir.Node {
	t.Helper()
	y, err := ir.FromJSON([]byte(s))
	if err != nil {
		t.Fatalf("%s: %v", s, err)
	}
	return y
}

func query(t *testing.T, d *Document) *goquery.Document {
	t.Helper()
	q, err := goquery.NewDocumentFromReader(strings.NewReader(d.Content))
	if err != nil {
		t.Fatal(err)
	}
	return q
}

const simpleDoc = `{"_type":"post","_id":"p1","_rev":"r1","count":2,"title":"Hi","tags":["a","","b"],"seo":{"_type":"seo","description":"D"}}`

func TestSerializeSimple(t *testing.T) {
	d, err := Serialize(mustNode(t, simpleDoc))
	if err != nil {
		t.Fatal(err)
	}
	want := `<html><head>` +
		`<meta name="_id" content="p1"><meta name="_type" content="post"><meta name="_rev" content="r1"><meta name="version" content="3">` +
		`</head><body><div class="post" id="p1" data-id="p1" data-type="object">` +
		`<span class="title">Hi</span>` +
		`<div class="tags" data-type="array"><span>a</span><span>b</span></div>` +
		`<div class="seo" data-level="field"><div class="seo" data-type="object"><span class="description">D</span></div></div>` +
		`</div></body></html>`
	if diff := cmp.Diff(want, d.Content); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if d.Name != "p1" {
		t.Errorf("name %q", d.Name)
	}
}

const richDoc = `{
	"_type": "post", "_id": "p2",
	"body": [
		{"_type": "block", "_key": "b1", "style": "h1", "markDefs": [], "children": [{"_type": "span", "text": "Title", "marks": []}]},
		{"_type": "block", "_key": "b2", "style": "normal",
		 "markDefs": [{"_type": "link", "_key": "m1", "href": "https://x"}],
		 "children": [
			{"_type": "span", "text": "Hello ", "marks": []},
			{"_type": "span", "text": "world", "marks": ["strong"]},
			{"_type": "span", "text": "link", "marks": ["m1"]}
		 ]},
		{"_type": "block", "_key": "l1", "style": "normal", "listItem": "bullet", "level": 1, "markDefs": [], "children": [{"_type": "span", "text": "one", "marks": []}]},
		{"_type": "block", "_key": "l2", "style": "normal", "listItem": "bullet", "level": 2, "markDefs": [], "children": [{"_type": "span", "text": "two", "marks": []}]},
		{"_type": "block", "_key": "n1", "style": "h2", "listItem": "number", "level": 1, "markDefs": [], "children": [{"_type": "span", "text": "first", "marks": []}]},
		{"_type": "block", "_key": "q1", "style": "blockquote", "markDefs": [], "children": [{"_type": "span", "text": "quote", "marks": []}]},
		{"_type": "block", "_key": "u1", "style": "custom1", "markDefs": [], "children": [{"_type": "span", "text": "odd", "marks": []}]}
	]
}`

func TestSerializeBlocks(t *testing.T) {
	d, err := Serialize(mustNode(t, richDoc))
	if err != nil {
		t.Fatal(err)
	}
	want := `<div class="body" data-type="array">` +
		`<h1 id="b1">Title</h1>` +
		`<p id="b2">Hello <strong>world</strong>` +
		`<span class="default-serialized-annotation" id="m1" data-type="link"><span class="default-serialized-children">link</span>` +
		`<div class="link" id="m1" data-type="object"><span class="href">https://x</span></div></span></p>` +
		`<ul><li id="l1" data-level="1">one</li><li id="l2" data-level="2">two</li></ul>` +
		`<ol><li id="n1" data-level="1"><h2>first</h2></li></ol>` +
		`<blockquote id="q1">quote</blockquote>` +
		`<p id="u1" data-type="unknown-block-style" data-style="custom1">odd</p>` +
		`</div>`
	if !strings.Contains(d.Content, want) {
		t.Errorf("got\n%s\nwant it to contain\n%s", d.Content, want)
	}
	q := query(t, d)
	if n := q.Find("li").Length(); n != 3 {
		t.Errorf("got %d list items", n)
	}
	if h, _ := q.Find("ol li").Html(); !strings.Contains(h, "h2") {
		t.Errorf("list item style lost: %s", h)
	}
}

var wireTests = []struct {
	name string
	doc  string
	want string
}{
	{
		name: "nested arrays",
		doc:  `{"_type":"p","_id":"p","grid":[["a","b"],[],[{"_type":"cell","_key":"c1","v":"x"}]]}`,
		want: `<div class="grid" data-type="array">` +
			`<div data-type="array"><span>a</span><span>b</span></div>` +
			`<div data-type="array"><div class="cell" id="c1" data-type="object"><span class="v">x</span></div></div>` +
			`</div>`,
	},
	{
		name: "lone block field",
		doc:  `{"_type":"p","_id":"p","lead":{"_type":"block","_key":"ld","style":"h2","markDefs":[],"children":[{"_type":"span","text":"Lead","marks":[]}]}}`,
		want: `<div class="lead" data-level="field"><h2 id="ld">Lead</h2></div>`,
	},
	{
		name: "span keys",
		doc: `{"_type":"p","_id":"p","body":[{"_type":"block","_key":"b1","style":"normal","markDefs":[],"children":[` +
			`{"_type":"span","_key":"abc123","text":"Hi ","marks":[]},{"_type":"span","_key":"def456","text":"there","marks":["em"]}]}]}`,
		want: `<p id="b1"><span data-key="abc123">Hi </span><span data-key="def456"><em>there</em></span></p>`,
	},
	{
		name: "nested _id",
		doc:  `{"_type":"p","_id":"p","ref":{"_type":"thing","_id":"ref-id","label":"x"}}`,
		want: `<div class="ref" data-level="field"><div class="thing" id="ref-id" data-id="ref-id" data-type="object"><span class="label">x</span></div></div>`,
	},
}

func TestSerializeWire(t *testing.T) {
	for _, tt := range wireTests {
		d, err := Serialize(mustNode(t, tt.doc))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(d.Content, tt.want) {
			t.Errorf("%s: got\n%s\nwant it to contain\n%s", tt.name, d.Content, tt.want)
		}
	}
}

func TestSerializeFiltersStopTypesAndNonLocalized(t *testing.T) {
	sch, err := schema.NewRegistry(&schema.Type{
		Name: "post",
		Fields: []schema.Field{
			{Name: "title", Type: "string"},
			{Name: "slug", Type: "slug", Localize: new(bool)},
			{Name: "hero", Type: "image"},
			{Name: "gallery", Type: "array"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	doc := mustNode(t, `{
		"_type": "post", "_id": "p3",
		"title": "T", "slug": "t",
		"hero": {"_type": "image", "alt": "alt text"},
		"gallery": [
			{"_type": "image", "_key": "g1", "alt": "a"},
			{"_type": "caption", "_key": "g2", "text": "c", "pos": {"_type": "geopoint", "label": "here"}}
		]
	}`)
	d, err := Serialize(doc, Schema(sch))
	if err != nil {
		t.Fatal(err)
	}
	q := query(t, d)
	for _, sel := range []string{".slug", ".hero", ".image", ".geopoint", "#g1"} {
		if q.Find(sel).Length() != 0 {
			t.Errorf("%s should not be serialized:\n%s", sel, d.Content)
		}
	}
	if got := q.Find("span.title").Text(); got != "T" {
		t.Errorf("title %q", got)
	}
	if got := q.Find(`div.caption[id="g2"] span.text`).Text(); got != "c" {
		t.Errorf("caption %q", got)
	}
}

func callout(y *ir.Node, c *Context) (*markup.Element, error) {
	return markup.New("aside",
		markup.A("class", "callout"),
		markup.A("id", y.Key())).Append(markup.Text(y.StringField("text"))), nil
}

func TestCustomSerializerEveryLevel(t *testing.T) {
	doc := mustNode(t, `{
		"_type": "page", "_id": "c1",
		"note": {"_type": "callout", "_key": "k1", "text": "field"},
		"items": [{"_type": "callout", "_key": "k2", "text": "item"}],
		"body": [{"_type": "block", "_key": "b1", "markDefs": [], "children": [
			{"_type": "span", "text": "see ", "marks": []},
			{"_type": "callout", "_key": "k3", "text": "inline"}
		]}]
	}`)
	sers := NewSerializers().With("callout", callout)
	d, err := Serialize(doc, WithSerializers(sers))
	if err != nil {
		t.Fatal(err)
	}
	q := query(t, d)
	for id, want := range map[string]string{"k1": "field", "k2": "item", "k3": "inline"} {
		if got := q.Find(`aside.callout[id="` + id + `"]`).Text(); got != want {
			t.Errorf("%s: got %q want %q", id, got, want)
		}
	}
	if q.Find("." + ObjectClass).Length() != 0 {
		t.Errorf("custom inline object should not be wrapped")
	}

	// registries are values: serializing again, or without the
	// override, is unaffected by the previous call.
	d2, err := Serialize(doc, WithSerializers(sers))
	if err != nil {
		t.Fatal(err)
	}
	if d2.Content != d.Content {
		t.Errorf("serialization not repeatable")
	}
	d3, err := Serialize(doc)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(d3.Content, "aside") {
		t.Errorf("override leaked:\n%s", d3.Content)
	}
	if !strings.Contains(d3.Content, `<span class="default-serialized-object" id="k3" data-type="callout">`) {
		t.Errorf("missing default inline object:\n%s", d3.Content)
	}
}

func TestSiblingObjectsOfOneType(t *testing.T) {
	doc := mustNode(t, `{
		"_type": "page", "_id": "s1",
		"first": {"_type": "card", "label": "First"},
		"cards": [
			{"_type": "card", "_key": "c2", "label": "Second"},
			{"_type": "card", "_key": "c3", "label": "Third", "inner": {"_type": "card", "label": "Nested"}}
		]
	}`)
	d, err := Serialize(doc)
	if err != nil {
		t.Fatal(err)
	}
	for _, label := range []string{"First", "Second", "Third", "Nested"} {
		if n := strings.Count(d.Content, ">"+label+"<"); n != 1 {
			t.Errorf("%s appears %d times:\n%s", label, n, d.Content)
		}
	}
	q := query(t, d)
	for sel, want := range map[string]string{
		`div.first > div.card > span.label`:               "First",
		`div.card[id="c2"] > span.label`:                  "Second",
		`div.card[id="c3"] > span.label`:                  "Third",
		`div.card[id="c3"] div.inner div.card span.label`: "Nested",
	} {
		if got := q.Find(sel).Text(); got != want {
			t.Errorf("%s: got %q want %q", sel, got, want)
		}
	}
	other, err := Serialize(mustNode(t, `{"_type": "card", "_id": "c9", "label": "Other"}`))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(other.Content, ">Other<") || strings.Contains(other.Content, "First") {
		t.Errorf("wrapper leaked between calls:\n%s", other.Content)
	}
}

func TestSerializerFailureIsIsolated(t *testing.T) {
	buf := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(buf, nil))
	doc := mustNode(t, `{
		"_type": "page", "_id": "f1", "title": "kept",
		"a": {"_type": "bad", "text": "x"},
		"b": {"_type": "worse", "text": "y"}
	}`)
	sers := NewSerializers().
		With("bad", func(*ir.Node, *Context) (*markup.Element, error) {
			return nil, errors.New("boom")
		}).
		With("worse", func(y *ir.Node, _ *Context) (*markup.Element, error) {
			var m map[string]string
			m["x"] = y.String
			return nil, nil
		})
	d, err := Serialize(doc, WithSerializers(sers), Logger(log))
	if err != nil {
		t.Fatal(err)
	}
	q := query(t, d)
	if got := q.Find("span.title").Text(); got != "kept" {
		t.Errorf("title %q", got)
	}
	if q.Find(".a").Length() != 0 || q.Find(".b").Length() != 0 {
		t.Errorf("failed nodes should render nothing:\n%s", d.Content)
	}
	if !strings.Contains(buf.String(), "serializer failed") || !strings.Contains(buf.String(), "serializer panicked") {
		t.Errorf("missing log output: %s", buf.String())
	}
}

func TestSerializeFieldLevel(t *testing.T) {
	doc := mustNode(t, `{
		"_type": "page", "_id": "fl1",
		"title": {"_type": "localeString", "en": "Hello", "es": "Hola"},
		"count": 4,
		"slices": [{"_type": "slice", "_key": "s1", "heading": {"en": "H", "es": "X"}}]
	}`)
	d, err := Serialize(doc, EncodeLevel(FieldLevel), BaseLocale("en"))
	if err != nil {
		t.Fatal(err)
	}
	q := query(t, d)
	if got := q.Find(`div.title[data-level="field"] span.en`).Text(); got != "Hello" {
		t.Errorf("title %q\n%s", got, d.Content)
	}
	if q.Find("span.es").Length() != 0 {
		t.Errorf("target locale serialized:\n%s", d.Content)
	}
	if got := q.Find(`div.slice[id="s1"] div.heading span.en`).Text(); got != "H" {
		t.Errorf("nested %q\n%s", got, d.Content)
	}
}

func TestSerializeLocaleArrayLevel(t *testing.T) {
	doc := mustNode(t, `{
		"_type": "doc", "_id": "la1",
		"greeting": [
			{"_key": "en", "_type": "internationalizedArrayStringValue", "value": "Hello"},
			{"_key": "fr", "_type": "internationalizedArrayStringValue", "value": "Bonjour"}
		]
	}`)
	d, err := Serialize(doc, EncodeLevel(LocaleArrayLevel))
	if err != nil {
		t.Fatal(err)
	}
	q := query(t, d)
	if got := q.Find(`div.greeting div[id="en"] span.value`).Text(); got != "Hello" {
		t.Errorf("got %q\n%s", got, d.Content)
	}
	if strings.Contains(d.Content, "Bonjour") {
		t.Errorf("other locale serialized")
	}
}

func TestSerializeNotDocument(t *testing.T) {
	if _, err := Serialize(ir.FromString("x")); !errors.Is(err, ErrNotDocument) {
		t.Errorf("got %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"document": DocumentLevel, "field": FieldLevel,
		"internationalizedArray": LocaleArrayLevel, "locale-array": LocaleArrayLevel,
	} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("%s: got %v %v", in, got, err)
		}
	}
	if _, err := ParseLevel("page"); !errors.Is(err, ErrBadLevel) {
		t.Errorf("got %v", err)
	}
}
