package main

import "github.com/gish-shell/gish/cmd"

func main() {
	cmd.Execute()
}
