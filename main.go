package main

import "github.com/theirongolddev/stayask/cmd"

func main() {
	cmd.Execute()
}
