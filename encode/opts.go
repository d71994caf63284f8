package encode

import (
	"log/slog"

	"github.com/signadot/transdoc/schema"
)

type EncodeOption func(*EncState)

func EncodeLevel(l Level) EncodeOption {
	return func(es *EncState) { es.level = l }
}
func BaseLocale(l string) EncodeOption {
	return func(es *EncState) { es.baseLocale = l }
}
func StopTypes(st schema.StopTypes) EncodeOption {
	return func(es *EncState) { es.stop = st }
}
func Schema(d schema.Descriptor) EncodeOption {
	return func(es *EncState) { es.schema = d }
}
func WithSerializers(s Serializers) EncodeOption {
	return func(es *EncState) { es.serializers = s }
}
func Logger(l *slog.Logger) EncodeOption {
	return func(es *EncState) { es.log = l }
}

// LevelFromOpts extracts the translation level from encode options.
func LevelFromOpts(opts ...EncodeOption) Level {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	return es.level
}
