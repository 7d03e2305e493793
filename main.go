package main

import "esg-matching/cmd"

func main() {
	cmd.Execute()
}
