package main

import "github.com/soundleaf/audioconv/cmd"

func main() {
	cmd.Execute()
}
