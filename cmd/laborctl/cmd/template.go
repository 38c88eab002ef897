package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/laborhours/api/pkg/parsers/usercsv"
)

var templateOut string

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write the CSV user import template",
	RunE: func(cmd *cobra.Command, args []string) error {
		if templateOut == "-" {
			return usercsv.WriteTemplate(os.Stdout)
		}

		f, err := os.Create(templateOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", templateOut, err)
		}
		defer f.Close()

		if err := usercsv.WriteTemplate(f); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", templateOut)
		return nil
	},
}

func init() {
	templateCmd.Flags().StringVar(&templateOut, "out", "users_import_template.csv", "Output path, or - for stdout")
}
