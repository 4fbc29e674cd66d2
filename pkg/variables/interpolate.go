package variables

import (
	"regexp"
	"strings"

	"docbuilder-be/pkg/blocks"
)

// tokenPattern matches {{ identifier(.identifier)* }} merge fields with
// optional inner whitespace.
var tokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)\s*\}\}`)

// Interpolate replaces every merge-field token in text. Resolution order
// per token: caller-supplied custom values win unconditionally on exact
// match (an explicit empty value blanks the token), then the built-in
// catalogue resolved from ctx, then the token degrades to a visible
// [tokenName] placeholder so broken merge fields are never silently
// blanked. A nil ctx behaves like an empty one.
func Interpolate(text string, customValues map[string]string, ctx *Context) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	if ctx == nil {
		ctx = &Context{}
	}

	lowered := make(map[string]string, len(customValues))
	for name, value := range customValues {
		lowered[strings.ToLower(name)] = value
	}

	return tokenPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := tokenPattern.FindStringSubmatch(match)[1]

		if value, ok := lowered[strings.ToLower(name)]; ok {
			return value
		}
		if resolve, ok := builtins[name]; ok {
			if value := resolve(ctx); value != "" {
				return value
			}
		}
		return "[" + name + "]"
	})
}

// ExtractVariables returns the de-duplicated token names appearing in
// text, in first-seen order.
func ExtractVariables(text string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, match := range tokenPattern.FindAllStringSubmatch(text, -1) {
		name := match[1]
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Classification partitions token names by built-in catalogue membership.
type Classification struct {
	BuiltIn []string
	Custom  []string
}

// Classify partitions names into built-in and custom.
func Classify(names []string) Classification {
	var c Classification
	for _, name := range names {
		if IsBuiltIn(name) {
			c.BuiltIn = append(c.BuiltIn, name)
		} else {
			c.Custom = append(c.Custom, name)
		}
	}
	return c
}

// InterpolateBlocks runs the document-level interpolation pass: every
// text-bearing payload of every block is interpolated in place on a deep
// copy. The inputs are never mutated.
func InterpolateBlocks(seq []blocks.Block, customValues map[string]string, ctx *Context) []blocks.Block {
	out := blocks.CloneSlice(seq)
	for i := range out {
		for _, payload := range out[i].TextPayloads() {
			*payload = Interpolate(*payload, customValues, ctx)
		}
	}
	return out
}
