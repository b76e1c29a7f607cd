package cliutil

import (
	"reflect"
	"strings"
)

// LookupSubcommand returns the `arg:"subcommand:NAME"` name of whichever
// field of the struct obj currently equals the value st, or "" if none match.
// Adapted from the teacher's cli/util/args.go.
func LookupSubcommand(obj interface{}, st interface{}) string {
	val := reflect.ValueOf(obj)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	v := reflect.ValueOf(st)
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := val.Field(i)
		if f.Interface() != v.Interface() {
			continue
		}

		field := typ.Field(i)
		alias, ok := field.Tag.Lookup("arg")
		if !ok {
			continue
		}

		const prefix = "subcommand"
		split := strings.Split(alias, ":")
		if len(split) != 2 || split[0] != prefix {
			continue
		}
		return split[1]
	}
	return ""
}
