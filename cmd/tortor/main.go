package main

import "github.com/bryanchriswhite/tortor/cmd/tortor/commands"

func main() {
	commands.Execute()
}
