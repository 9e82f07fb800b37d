package main

import "github.com/KaramelBytes/prodash/cmd"

func main() {
	cmd.Execute()
}
