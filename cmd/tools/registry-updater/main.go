// cmd/tools/registry-updater/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var registryPath string

var rootCmd = &cobra.Command{
	Use:   "registry-updater",
	Short: "Inspect and maintain the activity registry",
	Long: `registry-updater manages configs/activity-registry.json, the file the
worker manager compiles into job variable validators.

Examples:
  registry-updater list
  registry-updater validate
  registry-updater check-vars recommend-scholarships vars.json
  registry-updater set recommend-scholarships status verified`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&registryPath, "path", "p", "configs/activity-registry.json",
		"path to registry file")

	rootCmd.AddCommand(listCmd, showCmd, validateCmd, checkVarsCmd, setCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
