package main

import "github.com/tkral/faceid/cmd"

func main() {
	cmd.Execute()
}
