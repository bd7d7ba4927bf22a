package cmd

import (
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/oy3o/ebml"
	"github.com/spf13/cobra"
)

var headerCmd = &cobra.Command{
	Use:   "header <file>",
	Short: "Prints the header of an EBML file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(ExpandPath(args[0]))
		if err != nil {
			return err
		}
		defer f.Close()

		r, err := ebml.NewReader(f, ebml.WithLogger(logger))
		if err != nil {
			return err
		}
		renderHeader(cmd.OutOrStdout(), r.Header())
		return nil
	},
}

func renderHeader(w io.Writer, h ebml.Header) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "ID", "Value"})
	for _, row := range []struct {
		name  string
		id    ebml.ID
		value string
	}{
		{"Version", ebml.VersionID, strconv.FormatUint(uint64(h.Version), 10)},
		{"Read Version", ebml.ReadVersionID, strconv.FormatUint(uint64(h.ReadVersion), 10)},
		{"Max ID Width", ebml.MaxIDWidthID, strconv.FormatUint(uint64(h.MaxIDWidth), 10)},
		{"Max Size Width", ebml.MaxSizeWidthID, strconv.FormatUint(uint64(h.MaxSizeWidth), 10)},
		{"Doctype", ebml.DocTypeID, h.DocType},
		{"Doctype Version", ebml.DocTypeVersionID, strconv.FormatUint(uint64(h.DocTypeVersion), 10)},
		{"Doctype Read Version", ebml.DocTypeReadVersionID, strconv.FormatUint(uint64(h.DocTypeReadVersion), 10)},
	} {
		table.Append([]string{row.name, row.id.String(), row.value})
	}
	table.Render()
}

func init() {
	rootCmd.AddCommand(headerCmd)
}
