package main

import "github.com/KaramelBytes/titlescope/cmd"

func main() {
	cmd.Execute()
}
