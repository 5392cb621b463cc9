// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the depscript command line interface.
//
// Every command shares the global flags defined on the root command: the
// project root, an explicit config file, verbosity and the target tuple
// (system, platform, architecture, configuration). Target fields that are not
// given on the command line come from the configuration, then from the host.
package cmd
