package main

import "swath-tools/cmd"

func main() {
	cmd.Execute()
}
