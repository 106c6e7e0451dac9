package main

import (
	"fmt"
	"os"

	"github.com/comitanigiacomo/kanso-daily/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCmd(cli.DefaultOpener)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
