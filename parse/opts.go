package parse

import (
	"log/slog"
	"maps"
)

type ParseOption func(*parseState)

func WithDeserializers(d Deserializers) ParseOption {
	return func(ps *parseState) { ps.types = d }
}

// WithRules adds block rules.  They are tried in order, before the
// default rules.
func WithRules(rules ...BlockRule) ParseOption {
	return func(ps *parseState) { ps.rules = append(ps.rules, rules...) }
}

// WithStyle decodes elements named tag as blocks of style.
func WithStyle(tag, style string) ParseOption {
	return func(ps *parseState) {
		styles := maps.Clone(ps.styles)
		styles[tag] = style
		ps.styles = styles
	}
}

// Sanitize strips markup outside the wire format before parsing.
func Sanitize(v bool) ParseOption {
	return func(ps *parseState) { ps.sanitize = v }
}

func Logger(l *slog.Logger) ParseOption {
	return func(ps *parseState) { ps.log = l }
}
