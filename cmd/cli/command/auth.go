package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"yamdb/cmd/cli/authentication"
	"yamdb/cmd/cli/command/client"
	"yamdb/cmd/cli/dto"
)

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Sign up for a confirmation code, exchange it for a token, and log out.`,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Request a confirmation code by email",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.SignupRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Email, _ = cmd.Flags().GetString("email")

		response, err := client.NewHTTPClient(apiURL).Signup(&req)
		if err != nil {
			return fmt.Errorf("signup failed: %w", err)
		}

		success("Confirmation code sent to %s", response.Email)
		fmt.Printf("Run 'yamdb auth token -u %s -c <code>' to log in.\n", response.Username)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Exchange a confirmation code for an access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.TokenRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.ConfirmationCode, _ = cmd.Flags().GetString("code")

		token, err := client.NewHTTPClient(apiURL).ObtainToken(&req)
		if err != nil {
			return fmt.Errorf("token request failed: %w", err)
		}

		if err := authentication.StoreTokens(&authentication.StoredCredentials{
			AccessToken: token,
			Username:    req.Username,
			APIURL:      apiURL,
		}); err != nil {
			return fmt.Errorf("could not store token: %w", err)
		}

		success("Logged in as %s", req.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authentication.DeleteTokens(); err != nil {
			return err
		}
		success("Successfully logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the profile behind the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		me, err := httpClient.Me()
		if err != nil {
			return err
		}
		fmt.Printf("Username: %s\n", me.Username)
		fmt.Printf("Email: %s\n", me.Email)
		fmt.Printf("Role: %s\n", me.Role)
		if me.Bio != nil && *me.Bio != "" {
			fmt.Printf("Bio: %s\n", *me.Bio)
		}
		return nil
	},
}

func init() {
	authCmd.AddCommand(signupCmd)
	authCmd.AddCommand(tokenCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)

	signupCmd.Flags().StringP("username", "u", "", "Username for the account")
	signupCmd.Flags().StringP("email", "e", "", "Email address the code is sent to")
	signupCmd.MarkFlagRequired("username")
	signupCmd.MarkFlagRequired("email")

	tokenCmd.Flags().StringP("username", "u", "", "Username for the account")
	tokenCmd.Flags().StringP("code", "c", "", "Confirmation code from the email")
	tokenCmd.MarkFlagRequired("username")
	tokenCmd.MarkFlagRequired("code")
}
