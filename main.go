package main

import "github.com/notargets/gocross/cmd"

func main() {
	cmd.Execute()
}
