package main

import "github.com/killallgit/mull/cmd"

func main() {
	cmd.Execute()
}
