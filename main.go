package main

import "github.com/productdevbook/serial-logger/cmd"

func main() {
	cmd.Execute()
}
