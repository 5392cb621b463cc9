// SPDX-License-Identifier: MPL-2.0

package main

import (
	"os"

	cmd "github.com/depscript/depscript/cmd/depscript"
)

func main() {
	os.Exit(cmd.Execute())
}
