package main

import "github.com/OpenTraceLab/OpenTraceForge/cmd/forge/cmd"

func main() {
	cmd.Execute()
}
