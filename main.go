package main

import "github.com/moyu-x/folder-organizer/cmd"

func main() {
	cmd.Execute()
}
