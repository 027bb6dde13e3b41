package main

import "github.com/naka-gawa/github-skills/cmd"

func main() {
	cmd.Execute()
}
