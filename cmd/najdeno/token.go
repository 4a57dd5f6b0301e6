package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an identity token for development",
	Long: `Mint an identity token signed with the server's secret. In production
tokens come from the identity provider; this is for local testing.`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().String("sub", "", "user ID (required)")
	tokenCmd.Flags().String("name", "", "display name (required)")
	tokenCmd.Flags().String("email", "", "email address (required)")
	tokenCmd.Flags().String("phone", "", "phone number")
	tokenCmd.Flags().String("jwt-secret", "", "signing secret (default: stored in the database)")
	tokenCmd.Flags().String("jwt-issuer", "", "issuer to set on the token")
	_ = tokenCmd.MarkFlagRequired("sub")
	_ = tokenCmd.MarkFlagRequired("name")
	_ = tokenCmd.MarkFlagRequired("email")
}

func runToken(cmd *cobra.Command, _ []string) error {
	sub, _ := cmd.Flags().GetString("sub")
	profile := model.Profile{}
	profile.Name, _ = cmd.Flags().GetString("name")
	profile.Email, _ = cmd.Flags().GetString("email")
	if phone, _ := cmd.Flags().GetString("phone"); phone != "" {
		profile.Phone = &phone
	}
	profile.Normalize()
	if err := profile.Validate(); err != nil {
		return err
	}

	secret := cfg.JWTSecret
	if secret == "" {
		database, err := openDatabase(cfg.DBPath)
		if err != nil {
			return err
		}
		defer database.Close()

		secret, err = store.New(database).SigningSecret(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading signing secret: %w", err)
		}
	}

	token, err := auth.GenerateToken(secret, cfg.JWTIssuer, sub, profile)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
