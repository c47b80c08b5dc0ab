package main

import "github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/cli"

func main() {
	cli.Execute()
}
