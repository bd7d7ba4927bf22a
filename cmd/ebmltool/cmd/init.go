package cmd

import (
	"fmt"
	"os"

	"github.com/oy3o/ebml"
	"github.com/oy3o/ebml/objects"
	"github.com/spf13/cobra"
)

const (
	flagConfig  = "config"
	flagDocType = "doctype"
)

var initCmd = &cobra.Command{
	Use:   "init <file>",
	Short: "Writes a new EBML file holding only a header.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		header, err := headerFromFlags(cmd)
		if err != nil {
			return err
		}
		path := ExpandPath(args[0])
		if err := writeHeaderFile(path, header); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully initialized %s with doctype %q.\n", path, header.DocType)
		return nil
	},
}

func headerFromFlags(cmd *cobra.Command) (ebml.Header, error) {
	configPath, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return ebml.Header{}, err
	}
	if configPath != "" {
		return ReadConfigFile(configPath)
	}
	docType, err := cmd.Flags().GetString(flagDocType)
	if err != nil {
		return ebml.Header{}, err
	}
	return ebml.DefaultHeader(docType), nil
}

func writeHeaderFile(path string, header ebml.Header) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w, err := ebml.NewWriter(f, header, ebml.WithLogger(logger))
	if err != nil {
		return err
	}
	return w.Close()
}

func init() {
	initCmd.Flags().String(flagConfig, "", "TOML file with a [header] table.")
	initCmd.Flags().String(flagDocType, objects.FileDocType, "Doctype used when no config is given.")
	rootCmd.AddCommand(initCmd)
}
