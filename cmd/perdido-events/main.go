package main

import (
	"github.com/envisionperdido/perdido-events/internal/cli"
)

func main() {
	cli.Execute()
}
