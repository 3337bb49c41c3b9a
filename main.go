package main

import "github.com/CraigKelly/stanrun/cmd"

// TODO: run subcommand that execs the composed invocations and streams the
//       executable console output (one goroutine per chain)

// TODO: --data-inline should read from stdin when given "-"

// TODO: at least one unit test for cmd package - and maybe a benchmark?

func main() {
	cmd.Execute()
}
