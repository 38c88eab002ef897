// Command laborctl is the operator CLI: schema migrations, one-off user
// provisioning and CSV template generation.
package main

import (
	"os"

	"github.com/laborhours/api/cmd/laborctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
