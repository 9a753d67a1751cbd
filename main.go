package main

import "github.com/mtzs0/kockabarlang-party-planner/cmd"

func main() {
	cmd.Execute()
}
