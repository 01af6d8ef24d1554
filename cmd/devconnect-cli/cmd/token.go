package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/devconnect/devconnect/internal/auth"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Mint a bearer token for a user",
	Long: `Mint a signed bearer token for the given user record ID
(e.g. "user:abc123"). The token is signed with the JWT_SECRET from the
environment, so it is accepted by a server running with the same secret.
Intended for local development and scripting against the API.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			return fmt.Errorf("JWT_SECRET is not set")
		}

		authenticator := auth.NewAuthenticator(secret, tokenTTL)
		token, err := authenticator.Issue(args[0])
		if err != nil {
			return err
		}

		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
