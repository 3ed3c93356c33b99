package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lifesorter",
	Short: "Life-sorter diagnostic session engine",
	Long: `lifesorter runs the diagnostic interview API and inspects the persona
documents it is built from. Configuration comes from LIFESORTER_* environment variables.`,
	SilenceUsage: true,
}

var (
	docsDir      string
	manifestPath string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&docsDir, "docs", "", "Persona documents directory (overrides LIFESORTER_DOCS_DIR)")
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "", "Domain manifest YAML (overrides LIFESORTER_DOMAIN_MANIFEST)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(docsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
