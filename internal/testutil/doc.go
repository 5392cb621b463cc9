// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// The helpers cover file operations (MustMkdirAll, MustWriteFile,
// MustReadFile) and project fixtures (WriteTree).
package testutil
