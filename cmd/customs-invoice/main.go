package main

import (
	"fmt"
	"os"

	"github.com/rezonia/customs-invoice/cmd/customs-invoice/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
