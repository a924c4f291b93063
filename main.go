package main

import "github.com/notargets/goremap/cmd"

func main() {
	cmd.Execute()
}
