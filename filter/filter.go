// Package filter selects the translatable part of documents.
package filter

import (
	"github.com/signadot/transdoc/debug"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/schema"
)

// Fields reduces obj to its metadata and the declared fields which carry
// translatable content.  A field is kept if its value is truthy and it is
// localized and either textual, an array or not of a stop type.  If obj
// has keys the schema does not declare, obj is returned unfiltered.
func Fields(obj *ir.Node, fields []schema.Field, stop schema.StopTypes) *ir.Node {
	if obj == nil || obj.Type != ir.ObjectType {
		return obj
	}
	if HasNameCollision(obj, fields) {
		if debug.Filter() {
			debug.Logf("filter: %s %q has undeclared fields, not filtering\n", obj.Path(), obj.TypeTag())
		}
		return obj
	}
	res := ir.NewObject()
	copyMeta(res, obj)
	for _, f := range fields {
		if ir.IsMetaField(f.Name) {
			continue
		}
		v := obj.Get(f.Name)
		if !ir.Truth(v) {
			continue
		}
		if !keep(f, v, stop) {
			if debug.Filter() {
				debug.Logf("filter: dropping %s.%s (%s)\n", obj.Path(), f.Name, f.Type)
			}
			continue
		}
		res.Set(f.Name, v.Clone())
	}
	return res
}

func keep(f schema.Field, v *ir.Node, stop schema.StopTypes) bool {
	if !f.Localized() {
		return false
	}
	if f.IsText() {
		return true
	}
	if v.Type == ir.ArrayType {
		return true
	}
	return !stop.Has(f.Type)
}

// Object filters obj with the fields desc declares for its type.  Objects
// of undescribed types are returned unfiltered.
func Object(obj *ir.Node, desc schema.Descriptor, stop schema.StopTypes) *ir.Node {
	if desc == nil || obj == nil || obj.Type != ir.ObjectType {
		return obj
	}
	fields, ok := desc.Fields(obj.TypeTag())
	if !ok {
		return obj
	}
	return Fields(obj, fields, stop)
}

// HasNameCollision reports whether obj has a field, other than internal
// ones, that fields does not declare.  Such an object may be an instance
// of a different type sharing the name, so its schema cannot be trusted.
func HasNameCollision(obj *ir.Node, fields []schema.Field) bool {
	declared := make(map[string]bool, len(fields))
	for _, f := range fields {
		declared[f.Name] = true
	}
	for _, k := range obj.Fields {
		if ir.IsInternal(k) {
			continue
		}
		if !declared[k] {
			return true
		}
	}
	return false
}

func copyMeta(dst, src *ir.Node) {
	for _, m := range ir.MetaFields {
		if v := src.Get(m); ir.Truth(v) {
			dst.Set(m, v.Clone())
		}
	}
}

func hasContent(obj *ir.Node) bool {
	for _, k := range obj.Fields {
		if !ir.IsMetaField(k) {
			return true
		}
	}
	return false
}
