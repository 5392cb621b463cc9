// SPDX-License-Identifier: MPL-2.0

package depscript

// matchField reports whether a condition field accepts a target value.
// An empty condition is a wildcard.
func matchField(condition, value string) bool {
	return condition == "" || condition == value
}

// Matches reports whether the entry applies to the target. System,
// architecture and configuration must each match; the target platform is not
// part of the condition.
func (e Entry) Matches(t Target) bool {
	return matchField(e.System, t.System) &&
		matchField(e.Architecture, t.Architecture) &&
		matchField(e.Configuration, t.Configuration)
}

// Filter returns the entries that match the target, preserving order.
func Filter(entries []Entry, t Target) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Matches(t) {
			out = append(out, e)
		}
	}
	return out
}
