// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/depscript/depscript/pkg/depscript"
)

// ErrManifestCycle is returned when a manifest transitively references itself.
var ErrManifestCycle = errors.New("manifest cycle")

// CycleError reports the chain of manifest paths that closes a cycle. The
// last element repeats the first manifest of the cycle.
//
// A cycle belongs to the parse-error class: it matches both ErrManifestCycle
// and depscript.ErrManifestParse.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrManifestCycle, strings.Join(e.Chain, " -> "))
}

// Unwrap returns the sentinels the cycle matches.
func (e *CycleError) Unwrap() []error {
	return []error{ErrManifestCycle, depscript.ErrManifestParse}
}

// Path returns the manifest that closes the cycle.
func (e *CycleError) Path() string {
	if len(e.Chain) == 0 {
		return ""
	}
	return e.Chain[len(e.Chain)-1]
}
