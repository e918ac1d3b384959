// Package main implements the specforge CLI for offline FRS exports and
// manual operations against the specforged HTTP server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/specforge/internal/composer"
	"github.com/fyrsmithlabs/specforge/internal/entity"
)

var (
	// serverURL is the base URL for the specforged HTTP server
	serverURL string
	// version information
	version = "dev"

	exportFormat string
	exportOutput string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "specforge",
	Short: "CLI for specforged operations",
	Long: `specforge is a command-line interface for the requirements manager.
It renders FRS documents from exported project bundles and checks server health.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "specforged server URL")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "output format: html, markdown, word, json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(healthCmd)
}

// exportCmd renders an FRS document from a bundle file without a server.
var exportCmd = &cobra.Command{
	Use:   "export [bundle.json]",
	Short: "Render an FRS document from an exported project bundle",
	Long: `Render an FRS document from a project bundle JSON file or stdin.

The bundle is the aggregate returned by POST /api/projects/:id/generate-frs
or by the JSON export format.

Examples:
  # Render Markdown to stdout
  specforge export bundle.json

  # Render HTML to a file
  specforge export --format html --output project-frs.html bundle.json

  # Read the bundle from stdin
  curl -s -X POST $SERVER/api/projects/$ID/generate-frs | jq .bundle | specforge export -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check specforged server health",
	RunE:  runHealth,
}

func runExport(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open bundle: %w", err)
		}
		defer f.Close()
		in = f
	}

	var bundle entity.Bundle
	if err := json.NewDecoder(in).Decode(&bundle); err != nil {
		return fmt.Errorf("failed to decode bundle: %w", err)
	}

	format, err := composer.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	doc, err := composer.Compose(&bundle, composer.Options{
		Format:      format,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to compose document: %w", err)
	}

	if exportOutput == "" {
		fmt.Print(doc.Content)
		return nil
	}
	if err := os.WriteFile(exportOutput, []byte(doc.Content), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", exportOutput)
	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(serverURL + "/health")
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server unhealthy: %s: %s", resp.Status, string(body))
	}
	fmt.Println(string(body))
	return nil
}
