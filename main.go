// Package main is the entry point of the mochi binary: the Mochi application
// shell server and its session commands.
package main

import (
	"mochi/shell/cmd"
)

func main() {
	cmd.Execute()
}
