// Package parse deserializes translated HTML back into structured
// documents.
//
// Parsing is tolerant: elements it does not recognize are logged and
// skipped, and inline elements it does not recognize degrade to their
// text.  Only markup without a body element is rejected.
package parse
