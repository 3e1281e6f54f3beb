package main

import "github.com/rubiojr/mcscript/cmd/mcscriptc"

var version = "v0.1.0"

func main() {
	mcscriptc.Execute(version)
}
