package main

import "github.com/dimasma0305/backontime/cmd"

func main() {
	cmd.Execute()
}
