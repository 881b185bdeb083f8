package main

import (
	"github.com/eterea/eterea/internal/cli"
)

func main() {
	cli.Execute()
}
