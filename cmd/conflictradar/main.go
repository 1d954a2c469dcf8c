package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "conflictradar",
		Short: "Classify news feeds against tracked conflicts and derive threat levels",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(runCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(refreshCmd())
	root.AddCommand(catalogCmd())

	return root
}

func runCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start daemon with refresh scheduler and HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port, true)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP server with manual refresh only (no timer)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port, false)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func refreshCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch and classify all configured feeds once, then print the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefresh(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the tracked situations and places",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog()
		},
	}
}
