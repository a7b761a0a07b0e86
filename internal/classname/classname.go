// Package classname joins conditional utility class lists and resolves
// conflicts between utility classes of the same category, keeping the last.
package classname

import (
	"math"
	"sort"
	"strconv"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/samber/lo"
)

// Join flattens its inputs into a space separated class list.
//
// Strings are split on whitespace, map[string]bool contributes the keys set
// to true (in key order), slices are flattened recursively and non-zero
// numbers are stringified. nil, booleans, zero values and unsupported types
// are skipped.
func Join(inputs ...any) string {
	return strings.Join(collect(nil, inputs...), " ")
}

// Merge joins its inputs like Join and resolves conflicting utility
// classes with tailwind-merge rules: within one variant, the last class of
// a category wins. Exact duplicates collapse to their last position.
func Merge(inputs ...any) string {
	classes := collect(nil, inputs...)
	classes = lo.Reverse(lo.Uniq(lo.Reverse(classes)))
	return twmerge.Merge(strings.Join(classes, " "))
}

func collect(dst []string, inputs ...any) []string {
	for _, input := range inputs {
		switch v := input.(type) {
		case string:
			dst = append(dst, strings.Fields(v)...)
		case []string:
			for _, s := range v {
				dst = append(dst, strings.Fields(s)...)
			}
		case []any:
			dst = collect(dst, v...)
		case map[string]bool:
			keys := lo.Keys(v)
			sort.Strings(keys)
			for _, k := range keys {
				if v[k] {
					dst = append(dst, strings.Fields(k)...)
				}
			}
		case int:
			if v != 0 {
				dst = append(dst, strconv.Itoa(v))
			}
		case int64:
			if v != 0 {
				dst = append(dst, strconv.FormatInt(v, 10))
			}
		case float64:
			if v != 0 && !math.IsNaN(v) {
				dst = append(dst, strconv.FormatFloat(v, 'f', -1, 64))
			}
		}
	}
	return dst
}
