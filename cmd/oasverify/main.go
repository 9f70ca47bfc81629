// oasverify CLI - validate OpenAPI 3.0 documents from the command line.
package main

import (
	"os"

	"github.com/oasverify/oasverify/cmd/oasverify/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
