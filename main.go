package main

import "github.com/nuhgnoej/rofle/cmd"

func main() {
	cmd.Execute()
}
