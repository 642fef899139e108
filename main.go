package main

import "github.com/VladimirTheNoob/Budget-tracker/cmd"

func main() {
	cmd.Execute()
}
