package main

import "donation-core/cmd/donation-cli/cmd"

func main() {
	cmd.Execute()
}
