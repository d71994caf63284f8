package main

import (
	"github.com/signadot/transdoc"

	"github.com/scott-cotton/cli"
)

// reg holds the conversions of custom types.  Block rules come from the
// configuration.
var reg = transdoc.DefaultRegistry()

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "transdoc").
		WithSynopsis("transdoc [opts] command [opts]").
		WithDescription(mainDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tdMain(cfg, cc, args)
		}).
		WithSubs(
			SerializeCommand(cfg),
			DeserializeCommand(cfg),
			MergeCommand(cfg),
			PreviewCommand(cfg),
			RoundTripCommand(cfg),
			StoreCommand(cfg))
}

const mainDescription = `transdoc moves structured documents through a translation service.

Documents are JSON or YAML objects.  serialize renders the translatable
content of a document as HTML for the service.  deserialize decodes the
translated HTML, and merge reconciles the result with the original.

Configuration

transdoc reads 'transdoc.{yaml,json}' in the configuration directory:

  baseLocale: en
  # document, field or locale-array
  level: document
  # types never translated, replacing the built in ones
  stopTypes: [reference]
  # field descriptors and block rules, relative to the directory
  schema: schema.yaml
  rules: rules.yaml
  # where new locale array entries go: after, before, first or last
  insertPosition: after
  store: transdoc.db
  sanitize: false

$TRANSDOC_ENV may hold an object overriding any of these, such as
'{level: field}'.  Command line options take precedence over both.`

func SerializeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SerializeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Serialize, "serialize").
		WithAliases("s", "ser").
		WithSynopsis("serialize [-s] [files]").
		WithDescription("serialize documents to HTML for translation").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return serialize(cfg, cc, args)
		})
}

func DeserializeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DeserializeConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Deserialize, "deserialize").
		WithAliases("d", "de").
		WithSynopsis("deserialize [files]").
		WithDescription("decode translated HTML into documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return deserialize(cfg, cc, args)
		})
}

func MergeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &MergeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Merge, "merge").
		WithAliases("m").
		WithSynopsis("merge [-locale l] [-pos p] [-d | -p] <translated> <base>").
		WithDescription(mergeDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return mergeDocs(cfg, cc, args)
		})
}

const mergeDescription = `merge a translation into the document it was serialized from.

The translation is either the HTML returned by the translation service or
a decoded document.  At document level the output is the translated
document.  At field and locale-array level it is the base document with
the translations of -locale added.

-d shows the changes to the base document instead.  -p outputs them as an
RFC 6902 JSON patch, which is not available at document level.`

func PreviewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PreviewConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Preview, "preview").
		WithAliases("p", "pre").
		WithSynopsis("preview [files]").
		WithDescription("show documents or serialized HTML as markdown").
		WithRun(func(cc *cli.Context, args []string) error {
			return preview(cfg, cc, args)
		})
}

func RoundTripCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RoundTripConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.RoundTrip, "roundtrip").
		WithAliases("rt").
		WithSynopsis("roundtrip [-q] [files]").
		WithDescription("check that documents survive serialization and deserialization unchanged").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return roundTrip(cfg, cc, args)
		})
}

func StoreCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &StoreConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Store, "store").
		WithSynopsis("store [-db path] <subcommand>").
		WithDescription("keep documents and their translations in a revisioned store").
		WithOpts(opts...).
		WithSubs(
			StorePutCommand(cfg),
			StoreGetCommand(cfg),
			StorePatchCommand(cfg))
}

func StorePutCommand(storeCfg *StoreConfig) *cli.Command {
	cfg := &StorePutConfig{StoreConfig: storeCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Put, "put").
		WithSynopsis("put [-c] [files]").
		WithDescription("store documents as new revisions").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return storePut(cfg, cc, args)
		})
}

func StoreGetCommand(storeCfg *StoreConfig) *cli.Command {
	cfg := &StoreGetConfig{StoreConfig: storeCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get [-rev r | -draft | -revs] <id>").
		WithDescription("get a stored document").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return storeGet(cfg, cc, args)
		})
}

func StorePatchCommand(storeCfg *StoreConfig) *cli.Command {
	cfg := &StorePatchConfig{StoreConfig: storeCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithSynopsis("patch [-id id] -locale l [-pos p] <translated>").
		WithDescription("merge a translation into a stored document and store the result").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return storePatch(cfg, cc, args)
		})
}
