package main

import "github.com/Digital-Shane/title-lens/internal/cmd"

func main() {
	cmd.Execute()
}
