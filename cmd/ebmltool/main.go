package main

import "github.com/oy3o/ebml/cmd/ebmltool/cmd"

func main() {
	cmd.Execute()
}
