package flower

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Lint returns human-readable warnings for catalogs that load fine but play badly.
//
// Matching between carried pollen and flowers is exact on IDName, so a name
// without both a pickup and a deposit variant can never score, and two names
// one typo apart are almost certainly a mistake.
func Lint(c *Catalog) []string {
	var warnings []string

	type roles struct{ pickup, deposit bool }
	seen := make(map[string]*roles)
	var names []string
	for _, d := range c.Definitions() {
		r, ok := seen[d.IDName]
		if !ok {
			r = &roles{}
			seen[d.IDName] = r
			names = append(names, d.IDName)
		}
		if d.SpawnWeight == 0 {
			continue
		}
		if d.IsFullWithPollen {
			r.pickup = true
		} else {
			r.deposit = true
		}
	}
	sort.Strings(names)

	for _, name := range names {
		r := seen[name]
		switch {
		case r.pickup && !r.deposit:
			warnings = append(warnings, fmt.Sprintf("%q can be picked up but never deposited", name))
		case r.deposit && !r.pickup:
			warnings = append(warnings, fmt.Sprintf("%q accepts deposits but never spawns full", name))
		}
	}

	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := strings.ToLower(names[i]), strings.ToLower(names[j])
			if dist := levenshtein.ComputeDistance(a, b); dist <= typoLimit(min(len(a), len(b))) {
				warnings = append(warnings, fmt.Sprintf("%q and %q look alike (%d edits); pollen types match exactly", names[i], names[j], dist))
			}
		}
	}
	return warnings
}

func typoLimit(length int) int {
	switch {
	case length <= 3:
		return 0
	case length <= 8:
		return 1
	default:
		return 2
	}
}
