// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxivlens/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve [results.yaml]",
	Short: "Serve a saved recommendation run in the browser",
	Long: `Serve loads a results file written by "recommend --save" and presents it
as a web page at / plus a JSON API at /api/papers.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("listen", "127.0.0.1:8080", "listen address")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading results file: %w", err)
	}

	var results server.Results
	if err := yaml.Unmarshal(raw, &results); err != nil {
		return fmt.Errorf("parsing results file: %w", err)
	}

	addr, _ := cmd.Flags().GetString("listen")
	fmt.Fprintf(os.Stderr, "Serving %d papers on http://%s/\n", len(results.Papers), addr)
	return server.Serve(results, addr)
}
