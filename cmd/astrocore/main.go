package main

import "github.com/astrocore-app/astrocore/internal/cli"

func main() {
	cli.Execute()
}
