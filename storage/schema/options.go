package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Flags toggles the individual stages of the option resolution pipeline so
// that callers needing raw, unconverted or unfiltered views can opt out of
// each independently.
type Flags struct {
	Override     bool
	ConvertType  bool
	FilterHidden bool
}

// DefaultFlags enables every pipeline stage.
func DefaultFlags() Flags {
	return Flags{Override: true, ConvertType: true, FilterHidden: true}
}

// objectDefault is a known backend artifact standing in for complex default
// values; it always converts to an absent default.
const objectDefault = "[object Object]"

var numericTypePrefixes = []string{"float", "int", "number", "duration", "sizesuffix", "multiencoder"}

// Options runs the option pipeline for a schema: override, filter, sort by
// position, type-convert — in that order, each stage gated by flags. It
// returns nil, not an empty slice, when the target schema is not resolvable
// or every option is filtered out.
func (r *Resolver) Options(catalog []*Descriptor, targetSchema, targetProvider string, shortList bool, flags Flags) []*Resolved {
	storage := r.Schema(catalog, targetSchema)
	if storage == nil {
		return nil
	}

	options := storage.Options
	if flags.Override {
		options = r.overrideOptions(options, targetSchema, targetProvider)
	}

	var filtered []*Option
	for _, option := range options {
		if r.keepOption(option, shortList, targetProvider, flags.FilterHidden) {
			filtered = append(filtered, option)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return positionOf(filtered[i].Position) < positionOf(filtered[j].Position)
	})

	ret := make([]*Resolved, 0, len(filtered))
	for _, option := range filtered {
		resolved := &Resolved{Option: *option}
		if flags.ConvertType {
			resolved.ConvertedHide = option.Hide.Bool()
			resolved.ConvertedType = InferOptionType(option)
			resolved.ConvertedDefault = convertDefault(option, resolved.ConvertedType)
			resolved.FilteredExamples = filterExamples(option.Examples, targetProvider)
		}
		ret = append(ret, resolved)
	}
	return ret
}

func (r *Resolver) overrideOptions(options []*Option, targetSchema, targetProvider string) []*Option {
	ret := make([]*Option, 0, len(options))
	for _, option := range options {
		ret = append(ret, mergeOption(option,
			r.overrides.option(targetSchema, option.Name),
			r.overrides.providerOption(targetSchema, targetProvider, option.Name)))
	}
	return ret
}

func (r *Resolver) keepOption(option *Option, shortList bool, targetProvider string, filterHidden bool) bool {
	if filterHidden && option.Hide.Bool() {
		return false
	}
	// The provider option itself is handled by provider selection.
	if option.Name == "" || option.Name == "provider" {
		return false
	}
	if option.Advanced && shortList {
		return false
	}
	if option.Provider != "" && !matchesProvider(option.Provider, targetProvider) {
		return false
	}
	return true
}

// matchesProvider evaluates an applicability string: a comma-separated list
// of provider names, optionally prefixed with "!" meaning "all except
// these". With no provider selected only negated filters pass.
func matchesProvider(applicability, targetProvider string) bool {
	negated := strings.HasPrefix(applicability, "!")
	if targetProvider == "" {
		return negated
	}
	list := applicability
	if negated {
		list = applicability[1:]
	}
	listed := contains(strings.Split(list, ","), targetProvider)
	if negated {
		return !listed
	}
	return listed
}

// InferOptionType derives the semantic type of an option from its flags and
// raw type tag. Password/sensitive markers take precedence over everything
// else.
func InferOptionType(option *Option) OptionType {
	if option.IsPassword || option.Sensitive {
		return TypeSecret
	}
	tag := strings.ToLower(option.Type)
	if strings.HasPrefix(tag, "bool") {
		return TypeBoolean
	}
	for _, prefix := range numericTypePrefixes {
		if strings.HasPrefix(tag, prefix) {
			return TypeNumber
		}
	}
	return TypeString
}

// convertDefault computes a typed default value. Malformed catalog entries
// degrade to nil rather than failing the whole form.
func convertDefault(option *Option, optionType OptionType) interface{} {
	value := option.Default
	if value == nil {
		return nil
	}
	literal := fmt.Sprint(value)
	if literal == objectDefault {
		return nil
	}
	switch optionType {
	case TypeNumber:
		parsed, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return nil
		}
		return parsed
	case TypeBoolean:
		return strings.ToLower(literal) == "true"
	default:
		return literal
	}
}

func filterExamples(examples []Example, targetProvider string) []Example {
	if len(examples) == 0 {
		return nil
	}
	ret := make([]Example, 0, len(examples))
	for _, example := range examples {
		if example.Provider == "" || targetProvider == "" || matchesProvider(example.Provider, targetProvider) {
			ret = append(ret, example)
		}
	}
	return ret
}
