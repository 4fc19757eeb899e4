package main

import "github.com/theirongolddev/linkstat/cmd"

func main() {
	cmd.Execute()
}
