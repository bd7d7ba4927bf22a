package cmd

import (
	"fmt"

	"github.com/oy3o/ebml"
	"github.com/oy3o/ebml/objects"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Prints the object stored in a single-object file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString(flagDocType)
		if err != nil {
			return err
		}
		obj, err := ebml.Load(registry, ExpandPath(args[0]), format)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %+v\n", obj.TypeName(), obj)
		return nil
	},
}

func init() {
	showCmd.Flags().String(flagDocType, objects.FileDocType, "File format of the file.")
	rootCmd.AddCommand(showCmd)
}
