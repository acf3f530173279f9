package main

import "github.com/iksnae/pephub-client/cmd"

func main() {
	cmd.Execute()
}
