package main

import "github.com/acqtools/devherd/cmd"

func main() {
	cmd.Execute()
}
