package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cinezuva/cinezuva/internal/auth"
)

var storePlaintext bool

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var adminAddCmd = &cobra.Command{
	Use:   "add <email> <password>",
	Short: "Create an admin or replace its password",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		email := strings.TrimSpace(args[0])
		if email == "" {
			return errors.New("email is required")
		}

		secret := args[1]
		if !storePlaintext {
			if secret, err = auth.HashSecret(secret); err != nil {
				return err
			}
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore(st)

		if err := st.PutAdmin(cmd.Context(), email, secret); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %s saved\n", email)
		return nil
	},
}

func init() {
	adminAddCmd.Flags().BoolVar(&storePlaintext, "plaintext", false, "store the password unhashed, as older deployments did")
	adminCmd.AddCommand(adminAddCmd)
	rootCmd.AddCommand(adminCmd)
}
