package main

import "concursync/cmd/concursync/cmd"

func main() {
	cmd.Execute()
}
