// SPDX-License-Identifier: MPL-2.0

// Package platform maps the host environment to default build targets.
//
// Everything here is a pure function of its inputs: the host is sensed once at
// the CLI boundary (HostSystem, HostMachine) and the results are passed to
// DefaultTarget. Resolution code never queries the environment itself.
//
// The package also carries Windows filename rules used to warn about copy
// destinations that cannot exist on Windows-family targets.
package platform
