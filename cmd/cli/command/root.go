package command

// root.go defines the root command for the yamdb CLI and its global flags.

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"yamdb/cmd/cli/authentication"
	"yamdb/cmd/cli/command/client"
)

var apiURL string // Global flag for API server URL

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "yamdb",
	Short: "yamdb - YaMDb Command Line Interface",
	Long: `yamdb talks to the YaMDb API. Use it to:
- Sign up and exchange the mailed confirmation code for a token
- Browse titles with their categories, genres and ratings
- Post reviews and comment on other people's reviews

Use "yamdb command --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "✗", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080/api/v1", "API server URL")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(titleCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(genreCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(commentCmd)
}

// GetAuthenticatedClient returns a client carrying the stored token.
func GetAuthenticatedClient() (*client.HTTPClient, error) {
	creds, err := authentication.GetTokens()
	if err != nil {
		return nil, err
	}
	httpClient := client.NewHTTPClient(apiURL)
	httpClient.SetToken(creds.AccessToken)
	return httpClient, nil
}

// getClient uses the stored token when there is one and falls back to anonymous access.
func getClient() *client.HTTPClient {
	if c, err := GetAuthenticatedClient(); err == nil {
		return c
	}
	return client.NewHTTPClient(apiURL)
}

func success(format string, a ...any) {
	color.Green("✓ "+format, a...)
}

// Function to print a horizontal separator
func printSeparator() {
	fmt.Println("--------------------------------------------------")
}
