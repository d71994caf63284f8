// Package mergeop holds the patches produced by merging translations:
// sets of field values addressed by path, and insert or replace
// operations on arrays.  Both render as RFC 6902 JSON patches and apply
// to documents locally.
//
// Paths are written as in ir.Node.KPath:
//
//	title.es_ES
//	slices[0].heading.es_ES
//	'odd.name'.es_ES
package mergeop
