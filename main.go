package main

import "github.com/VoxDroid/launchr/cmd"

func main() {
	cmd.Execute()
}
