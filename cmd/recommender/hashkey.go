package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/assessment-recommender/internal/config"
)

var hashKeyCommand = &cobra.Command{
	Use:   "hash-admin-key <key>",
	Short: "Hash an admin key for the ADMIN_KEY_HASH environment variable",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		hash, err := config.HashAdminKey(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashKeyCommand)
}
