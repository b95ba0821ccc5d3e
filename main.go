// SPDX-License-Identifier: MPL-2.0

package main

import cmd "jsonmodel-cli/cmd/jsonmodel"

func main() {
	cmd.Execute()
}
