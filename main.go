// Package main is the entry point for the mutatest CLI.
package main

import "github.com/EvanKepner/mutatest/cmd"

func main() {
	cmd.Execute()
}
