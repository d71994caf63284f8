// Package transdoc translates structured documents through markup.
//
// A document is serialized to HTML (package encode), translated by an
// external service which leaves the markup structure intact, decoded
// back (package parse) and merged with the document it came from
// (package merge).  Registry bundles the per type overrides of the two
// directions and Patcher runs merges against a document store.
package transdoc
