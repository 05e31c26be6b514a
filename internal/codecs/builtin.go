package codecs

import "oceanqc/pkg/codec"

// Builtin registers the built-in codecs in their probe order. External
// plugins register afterwards and may overwrite a name.
func Builtin(reg *codec.Registry) {
	Filtered(reg, func(string) bool { return true })
}

// Filtered registers the built-in codecs whose names the enabled predicate
// accepts, preserving probe order among those registered.
func Filtered(reg *codec.Registry, enabled func(name string) bool) {
	if enabled("json") {
		reg.Register("json", JSONCodec{})
	}
	if enabled("yaml") {
		reg.Register("yaml", YAMLCodec{})
	}
	if enabled("csv") {
		reg.Register("csv", CSVCodec{})
	}
}
