// Command sims-server runs the reference inventory service the client talks
// to: the HTTP/JSON contract backed by a sqlite database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	exitSysError = 1
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitSysError)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sims-server",
		Short: "Serve the SIMS inventory API",
		Long: `sims-server serves the inventory API used by the SIMS client: account
registration and login, shelves, and items, persisted in a sqlite database.`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.Flags().String(keyListen, defaultListen, "address to listen on")
	root.Flags().String(keyDB, defaultDB, "path to the sqlite database")
	root.Flags().String(keyLogFile, "", "path to the log file")
	root.Flags().StringVar(&configFile, "config", "", "config file (YAML or TOML)")

	root.AddCommand(versionCmd)
	return root
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "sims-server v0.1.0")
	},
}
