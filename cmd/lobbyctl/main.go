package main

import (
	"github.com/playsquare/lobbyd/internal/cli"
)

func main() {
	cli.Execute()
}
