// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/static-php/spc-packages/cmd/spp"

func main() {
	cmd.Execute()
}
