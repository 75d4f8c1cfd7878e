package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"educast/internal/speech"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List available narration voices",
	Run: func(cmd *cobra.Command, args []string) {
		for _, v := range speech.Voices() {
			fmt.Printf("%-24s %-8s %-6s %s\n", v.Name, v.Gender, v.Locale, v.DisplayName)
		}
	},
}

func init() {
	rootCmd.AddCommand(voicesCmd)
}
