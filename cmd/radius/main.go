package main

import "github.com/arl/go-detour-radius/cmd/radius/cmd"

func main() {
	cmd.Execute()
}
