package main

import "github.com/VoxDroid/rpkgs/cmd"

func main() {
	cmd.Execute()
}
