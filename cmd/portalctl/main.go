package main

import (
	"os"
)

func main() {
	if err := newRootCommand(loadApp).Execute(); err != nil {
		os.Exit(1)
	}
}
