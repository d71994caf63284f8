package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const postSchema = `
types:
- name: post
  fields:
  - name: title
    type: string
  - name: slug
    type: slug
    localize: false
  - name: body
    type: array
- name: seo
  fields:
  - {name: description, type: text}
`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(postSchema))
	if err != nil {
		t.Fatal(err)
	}
	fields, ok := r.Fields("post")
	if !ok {
		t.Fatal("post not registered")
	}
	var names []string
	for _, f := range fields {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"title", "slug", "body"}, names); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	slug, _ := r.Lookup("post").Field("slug")
	if slug.Localized() {
		t.Errorf("slug should not be localized")
	}
	title, _ := r.Lookup("post").Field("title")
	if !title.Localized() || !title.IsText() {
		t.Errorf("title should be localized text")
	}
	if len(r.All()) != 2 {
		t.Errorf("got %d types", len(r.All()))
	}
	if _, ok := r.Fields("missing"); ok {
		t.Errorf("missing type found")
	}
}

func TestDuplicate(t *testing.T) {
	_, err := Parse([]byte("types:\n- name: a\n- name: a\n"))
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("got %v", err)
	}
}

func TestStopTypes(t *testing.T) {
	st := DefaultStopTypes()
	for _, n := range []string{"reference", "image", "number", "boolean"} {
		if !st.Has(n) {
			t.Errorf("%s should be a stop type", n)
		}
	}
	if st.Has("string") || st.Has("") {
		t.Errorf("unexpected stop type")
	}
	if diff := cmp.Diff([]string{"a", "b"}, NewStopTypes("b", "a").Names()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
