package main

import "github.com/adigandhi/BitVault-Pass-cleaner/cmd"

func main() {
	cmd.Execute()
}
