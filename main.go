package main

import "github.com/pfrederiksen/breach-radius/cmd"

func main() {
	cmd.Execute()
}
