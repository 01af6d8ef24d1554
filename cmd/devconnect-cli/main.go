package main

import "github.com/devconnect/devconnect/cmd/devconnect-cli/cmd"

func main() {
	cmd.Execute()
}
