package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GavinEsch/mlcli/internal/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the API key for the HTTP query service",
	RunE: func(cmd *cobra.Command, args []string) error {
		generate, _ := cmd.Flags().GetBool("generate")

		gate := auth.NewGate(cfg.Workdir)

		if generate {
			key, err := gate.Generate()
			if err != nil {
				return err
			}
			fmt.Println(key)
			fmt.Println("\nStore this key now; previous keys no longer validate.")
			return nil
		}

		if gate.Configured() {
			fmt.Println("API key: configured")
		} else {
			fmt.Println("API key: not configured (run 'mlcli auth --generate')")
		}
		return nil
	},
}

func init() {
	authCmd.Flags().Bool("generate", false, "generate a new API key, replacing any existing one")
}
