package main

import "github.com/gaurav-prasanna/actapipe/cmd"

func main() {
	cmd.Execute()
}
