package merge

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/mergeop"
)

func node(t *testing.T, s string) *ir.Node {
	t.Helper()
	y, err := ir.FromJSON([]byte(s))
	if err != nil {
		t.Fatalf("%s: %v", s, err)
	}
	return y
}

func block(key, text string) string {
	return fmt.Sprintf(`{"_type":"block","_key":%q,"style":"normal","markDefs":[],`+
		`"children":[{"_type":"span","_key":"%s-0","text":%q,"marks":[]}]}`, key, key, text)
}

func checkEqual(t *testing.T, want, got *ir.Node) {
	t.Helper()
	if !ir.Equal(want, got) {
		t.Errorf("(-want +got):\n%s", cmp.Diff(string(ir.ToJSONIndent(want, "  ")), string(ir.ToJSONIndent(got, "  "))))
	}
}

func captured() (*Merger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return New(WithLogger(slog.New(slog.NewTextHandler(buf, nil)))), buf
}

var (
	baseArticle = `{
	"_id": "d1", "_type": "article", "_rev": "r1",
	"title": "Hello", "snippet": "Snip", "views": 10,
	"slug": {"_type": "slug", "current": "hello"},
	"config": {
		"title": "Nested",
		"nestedArrayField": [` + block("k1", "Old text") + `],
		"objectAsField": {"title": "OT", "other": "keep"}
	},
	"content": [
		` + block("b1", "Para one") + `,
		` + block("b2", "Para two") + `,
		{"_type": "image", "_key": "img1", "alt": "Alt", "asset": {"_ref": "image-1"}}
	],
	"tags": ["a", "b"]
}`
	translatedArticle = `{
	"_id": "d1", "_type": "article",
	"title": "Hola", "snippet": "", "views": 20,
	"config": {"title": "Anidado", "objectAsField": {"title": "OT-es"}},
	"content": [
		` + block("b2", "Párrafo dos") + `,
		{"_type": "image", "_key": "img1", "alt": "Alt-es"},
		` + block("b9", "ghost") + `
	],
	"tags": ["x"]
}`
	mergedArticle = `{
	"_id": "d1", "_type": "article", "_rev": "r1",
	"title": "Hola", "snippet": "Snip", "views": 10,
	"slug": {"_type": "slug", "current": "hello"},
	"config": {
		"title": "Anidado",
		"nestedArrayField": [` + block("k1", "Old text") + `],
		"objectAsField": {"title": "OT-es", "other": "keep"}
	},
	"content": [
		` + block("b1", "Para one") + `,
		` + block("b2", "Párrafo dos") + `,
		{"_type": "image", "_key": "img1", "alt": "Alt-es", "asset": {"_ref": "image-1"}}
	],
	"tags": ["x"]
}`
)

func TestDocumentLevel(t *testing.T) {
	base := node(t, baseArticle)
	before := string(ir.ToJSON(base))
	m, logs := captured()

	got := m.DocumentLevel(node(t, translatedArticle), base)
	checkEqual(t, node(t, mergedArticle), got)

	if after := string(ir.ToJSON(base)); after != before {
		t.Errorf("base modified:\n%s", cmp.Diff(before, after))
	}
	if !strings.Contains(logs.String(), "no longer exists") || !strings.Contains(logs.String(), "key=b9") {
		t.Errorf("missing warning: %s", logs.String())
	}
	again := m.DocumentLevel(node(t, translatedArticle), got)
	checkEqual(t, got, again)
}

func TestReconcileArray(t *testing.T) {
	tests := []struct {
		name       string
		base       string
		translated string
		want       string
	}{
		{
			name:       "strings replace",
			base:       `["a", "b", "c"]`,
			translated: `["x"]`,
			want:       `["x"]`,
		},
		{
			name:       "nil base",
			translated: `[{"_key": "k", "t": "x"}]`,
			want:       `[]`,
		},
		{
			name:       "empty translated",
			base:       `[{"_key": "k", "t": "x"}]`,
			translated: `[]`,
			want:       `[{"_key": "k", "t": "x"}]`,
		},
		{
			name:       "unkeyed items ignored",
			base:       `[{"_key": "k", "t": "x"}]`,
			translated: `[{"t": "y"}]`,
			want:       `[{"_key": "k", "t": "x"}]`,
		},
		{
			name:       "order of base kept",
			base:       `[{"_key": "a", "t": "1"}, {"_key": "b", "t": "2"}]`,
			translated: `[{"_key": "b", "t": "B"}, {"_key": "a", "t": "A"}]`,
			want:       `[{"_key": "a", "t": "A"}, {"_key": "b", "t": "B"}]`,
		},
		{
			name:       "spans replaced whole",
			base:       `[{"_type": "span", "_key": "s", "text": "x", "marks": ["em"]}]`,
			translated: `[{"_type": "span", "_key": "s", "text": "y", "marks": []}]`,
			want:       `[{"_type": "span", "_key": "s", "text": "y", "marks": []}]`,
		},
		{
			name:       "wrong shape base",
			base:       `"scalar"`,
			translated: `["x"]`,
			want:       `["x"]`,
		},
	}
	m, _ := captured()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var base *ir.Node
			if tt.base != "" {
				base = node(t, tt.base)
			}
			checkEqual(t, node(t, tt.want), m.ReconcileArray(base, node(t, tt.translated)))
		})
	}
}

func TestReconcileObject(t *testing.T) {
	tests := []struct {
		name       string
		base       string
		translated string
		want       string
	}{
		{
			name:       "empty translated",
			base:       `{"a": "x"}`,
			translated: `{}`,
			want:       `{"a": "x"}`,
		},
		{
			name:       "not an object",
			base:       `{"a": "x"}`,
			translated: `"y"`,
			want:       `{"a": "x"}`,
		},
		{
			name:       "internal and falsy fields skipped",
			base:       `{"_key": "k", "a": "x", "b": "y"}`,
			translated: `{"_key": "other", "_type": "t", "a": "", "b": "z", "c": null}`,
			want:       `{"_key": "k", "a": "x", "b": "z"}`,
		},
		{
			name:       "new fields added",
			base:       `{"a": "x"}`,
			translated: `{"b": "y", "o": {"c": "z"}, "l": ["s"]}`,
			want:       `{"a": "x", "b": "y", "o": {"c": "z"}, "l": ["s"]}`,
		},
		{
			name:       "scalar replaced by object",
			base:       `{"a": "x"}`,
			translated: `{"a": {"b": "y"}}`,
			want:       `{"a": {"b": "y"}}`,
		},
		{
			name:       "non string leaves ignored",
			base:       `{"n": 1, "b": false}`,
			translated: `{"n": 2, "b": true}`,
			want:       `{"n": 1, "b": false}`,
		},
	}
	m, _ := captured()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkEqual(t, node(t, tt.want), m.ReconcileObject(node(t, tt.base), node(t, tt.translated)))
		})
	}
}

var fieldLevelBase = `{
	"_id": "f1", "_rev": "r1", "_type": "page",
	"title": {"_type": "localeString", "en": "Hello", "de": "Hallo"},
	"body": {"_type": "localeBlock", "en": [` + block("b1", "Text") + `]},
	"slices": [
		{"_type": "localeString", "_key": "s1", "en": "One"},
		{"_type": "localeString", "_key": "s2", "en": "Two"}
	],
	"pageFields": {"name": {"en": "N"}}
}`

func TestFieldLevel(t *testing.T) {
	base := node(t, fieldLevelBase)
	translated := node(t, `{
		"_id": "f1", "_rev": "r1", "_type": "page",
		"title": {"_type": "localeString", "en": "Hola"},
		"body": {"_type": "localeBlock", "en": [`+block("b1", "Texto")+`]},
		"slices": [{"_type": "localeString", "_key": "s2", "en": "Dos"}],
		"pageFields": {"name": {"en": "Nombre"}},
		"gone": {"en": "x"}
	}`)
	m, logs := captured()
	ps := m.FieldLevel(translated, base, "es-ES", "en")

	wantPaths := []string{"_rev", "_id", "_type", "title.es_ES", "body.es_ES", "slices[1].es_ES", "pageFields.name.es_ES"}
	if diff := cmp.Diff(wantPaths, ps.Paths()); diff != "" {
		t.Fatalf("paths (-want +got):\n%s", diff)
	}
	checkEqual(t, ir.FromString("Hola"), ps.Get("title.es_ES"))
	checkEqual(t, node(t, `[`+block("b1", "Texto")+`]`), ps.Get("body.es_ES"))
	checkEqual(t, ir.FromString("Dos"), ps.Get("slices[1].es_ES"))
	if !strings.Contains(logs.String(), "path=gone") {
		t.Errorf("missing warning: %s", logs.String())
	}

	patched, err := ps.Apply(base)
	if err != nil {
		t.Fatal(err)
	}
	if got := patched.Get("pageFields").Get("name").StringField("es_ES"); got != "Nombre" {
		t.Errorf("got %q", got)
	}
	if got := patched.Get("slices").Values[0].Has("es_ES"); got {
		t.Error("s1 patched")
	}
	if base.Get("title").Has("es_ES") {
		t.Error("base modified")
	}
}

var localeArrayBase = `{
	"_id": "a1",
	"title": [
		{"_type": "internationalizedArrayStringValue", "_key": "en", "value": "Hello"},
		{"_type": "internationalizedArrayStringValue", "_key": "de", "value": "Hallo"}
	],
	"body": [
		{"_type": "internationalizedArrayBlockValue", "_key": "en", "value": [` + block("b1", "Text") + `]},
		{"_type": "internationalizedArrayBlockValue", "_key": "es_ES", "value": [` + block("b1", "Viejo") + `]}
	],
	"sections": [
		{"_type": "section", "_key": "sec1", "names": [{"_type": "internationalizedArrayStringValue", "_key": "en", "value": "Sec"}]}
	]
}`

var localeArrayTranslated = `{
	"_id": "a1",
	"title": [{"_type": "internationalizedArrayStringValue", "_key": "en", "value": "Hola"}],
	"body": [{"_type": "internationalizedArrayBlockValue", "_key": "en", "value": [` + block("b1", "Texto") + `]}],
	"sections": [
		{"_type": "section", "_key": "sec1", "names": [{"_type": "internationalizedArrayStringValue", "_key": "en", "value": "Sección"}]}
	]
}`

func opStrings(ops mergeop.Ops) []string {
	res := make([]string, len(ops))
	for i, o := range ops {
		res[i] = fmt.Sprintf("%s %s %d %s", o.Kind, o.Path, o.Index, ir.ToJSON(o.Item))
	}
	return res
}

func TestLocaleArray(t *testing.T) {
	base := node(t, localeArrayBase)
	m, _ := captured()
	ops := m.LocaleArray(node(t, localeArrayTranslated), base, "es_ES", "en", AfterBase)
	want := []string{
		`insert title 1 {"_type":"internationalizedArrayStringValue","_key":"es_ES","value":"Hola"}`,
		`replace body 1 {"_type":"internationalizedArrayBlockValue","_key":"es_ES","value":[` + string(ir.ToJSON(node(t, block("b1", "Texto")))) + `]}`,
		`insert sections[0].names 1 {"_type":"internationalizedArrayStringValue","_key":"es_ES","value":"Sección"}`,
	}
	if diff := cmp.Diff(want, opStrings(ops)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	patched, err := ops.Apply(base)
	if err != nil {
		t.Fatal(err)
	}
	title := patched.Get("title")
	if n := len(title.Values); n != 3 || title.Values[1].StringField("value") != "Hola" {
		t.Errorf("got %s", ir.ToJSON(title))
	}
	if v := patched.Get("body").Values[1].Get("value"); v.Values[0].Get("children").Values[0].StringField("text") != "Texto" {
		t.Errorf("got %s", ir.ToJSON(v))
	}
	if len(base.Get("title").Values) != 2 {
		t.Error("base modified")
	}
}

func TestInsertPosition(t *testing.T) {
	base := node(t, `{"title": [{"_key": "de", "value": "Hallo"}, {"_key": "en", "value": "Hello"}, {"_key": "fr", "value": "Salut"}]}`)
	translated := node(t, `{"title": [{"_key": "en", "value": "Hola"}]}`)
	tests := []struct {
		pos  Position
		want int
	}{
		{pos: AfterBase, want: 2},
		{pos: BeforeBase, want: 1},
		{pos: First, want: 0},
		{pos: Last, want: 3},
	}
	for _, tt := range tests {
		ops := LocaleArray(translated, base, "es", "en", tt.pos)
		if len(ops) != 1 || ops[0].Kind != mergeop.Insert || ops[0].Index != tt.want {
			t.Errorf("%s: got %v", tt.pos, opStrings(ops))
		}
		p, err := ParsePosition(tt.pos.String())
		if err != nil || p != tt.pos {
			t.Errorf("%s: parsed %v, %v", tt.pos, p, err)
		}
	}
	if _, err := ParsePosition("middle"); err == nil {
		t.Error("expected error")
	}
}
