package main

// Submit a referral from the command line:
//   go run ./cmd/refer submit --endpoint http://localhost:8080/api/v1/referrals \
//     --name "Jean Dupont" --file lettre.pdf

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "refer",
	Short:         "Referral intake client",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(submitCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
