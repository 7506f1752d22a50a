// ABOUTME: Entry point for the affordaily CLI
// ABOUTME: Terminal front-end for the Affordaily property-management backend

package main

import (
	"fmt"
	"os"

	"github.com/adokuru/affordaily-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
