// clarify: ambiguity detection and clarification dialogue.
//
// Usage:
//
//	clarify detect spec.md     # List the ambiguities in a file
//	clarify chat               # Clarify a request interactively
//	clarify serve              # Run the HTTP service
//	clarify mcp                # Start the MCP server (stdio transport)
package main

import (
	"os"

	"github.com/HendryAvila/clarify/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
