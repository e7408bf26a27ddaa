// ABOUTME: Entry point for the xpg-admin CLI
// ABOUTME: Terminal admin console for the X-Play.G back-office

package main

import (
	"fmt"
	"os"

	"github.com/kimguny/xpg-admin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
