package main

import "flowershop_backend/cmd"

func main() {
	cmd.Execute()
}
