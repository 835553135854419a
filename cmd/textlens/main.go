package main

import (
	"fmt"
	"os"

	"textlens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "textlens:", err)
		os.Exit(1)
	}
}
