package main

import (
	"os"

	"github.com/venkatarajeshjakka/notes/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
