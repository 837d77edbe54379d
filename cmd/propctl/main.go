// FILE: lixenwraith/property/cmd/propctl/main.go
package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := newRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "propctl: %v\n", err)
		os.Exit(1)
	}
}
