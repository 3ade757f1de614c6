package main

import "weekboard/cmd"

func main() {
	cmd.Execute()
}
