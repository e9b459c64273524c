package internal

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Defines yields each named constant of every group as a hex string, in
// name order within a group. Later groups may repeat a name; consumers
// see the last value.
func Defines(groups ...map[string]uint32) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, group := range groups {
			for _, name := range slices.Sorted(maps.Keys(group)) {
				if !yield(name, fmt.Sprintf("0x%x", group[name])) {
					return // Stop if the consumer stops
				}
			}
		}
	}
}
