package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Merge   bool
	Diff    bool
	Merge3  bool
	Schema  bool
	Library bool
}

var d *debug

func init() {
	d = &debug{}
	d.Merge = boolEnv("SEVMETA_DEBUG_MERGE")
	d.Diff = boolEnv("SEVMETA_DEBUG_DIFF")
	d.Merge3 = boolEnv("SEVMETA_DEBUG_MERGE3")
	d.Schema = boolEnv("SEVMETA_DEBUG_SCHEMA")
	d.Library = boolEnv("SEVMETA_DEBUG_LIBRARY")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Merge() bool {
	return d.Merge
}
func Diff() bool {
	return d.Diff
}
func Merge3() bool {
	return d.Merge3
}
func Schema() bool {
	return d.Schema
}
func Library() bool {
	return d.Library
}
