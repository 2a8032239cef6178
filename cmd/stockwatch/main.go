package main

import (
	"stock-move-alerts/internal/cli"
)

func main() {
	cli.Execute()
}
