package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Serialize   bool
	Deserialize bool
	Filter      bool
	Merge       bool
	Patch       bool
	Config      bool
}

var d *debug

func init() {
	d = &debug{}
	d.Serialize = boolEnv("TRANSDOC_DEBUG_SERIALIZE")
	d.Deserialize = boolEnv("TRANSDOC_DEBUG_DESERIALIZE")
	d.Filter = boolEnv("TRANSDOC_DEBUG_FILTER")
	d.Merge = boolEnv("TRANSDOC_DEBUG_MERGE")
	d.Patch = boolEnv("TRANSDOC_DEBUG_PATCH")
	d.Config = boolEnv("TRANSDOC_DEBUG_CONFIG")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Serialize() bool {
	return d.Serialize
}
func Deserialize() bool {
	return d.Deserialize
}
func Filter() bool {
	return d.Filter
}
func Merge() bool {
	return d.Merge
}
func Patch() bool {
	return d.Patch
}
func Config() bool {
	return d.Config
}
