package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/oy3o/ebml"
	"github.com/spf13/cobra"
)

const flagMaster = "master"

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Lists the elements that follow the header of an EBML file.",
	Long: "Lists the elements that follow the header of an EBML file. Elements whose ids are\n" +
		"given with --master are descended into; all others are listed as opaque.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := cmd.Flags().GetStringSlice(flagMaster)
		if err != nil {
			return err
		}
		masters, err := parseIDs(ids)
		if err != nil {
			return err
		}

		f, err := os.Open(ExpandPath(args[0]))
		if err != nil {
			return err
		}
		defer f.Close()

		r, err := ebml.NewReader(f, ebml.WithLogger(logger))
		if err != nil {
			return err
		}
		rows, err := dumpElements(r, masters)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		renderHeader(out, r.Header())
		renderElements(out, rows)
		return nil
	},
}

func parseIDs(ids []string) (map[ebml.ID]bool, error) {
	masters := make(map[ebml.ID]bool, len(ids))
	for _, s := range ids {
		v, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid id %s: %w", s, err)
		}
		masters[ebml.ID(v)] = true
	}
	return masters, nil
}

// element is one listed element. Length counts the whole element, id and size included.
type element struct {
	Depth  int
	Offset int64
	ID     ebml.ID
	Length int64
}

// dumpElements walks the stream after the header, descending into masters.
func dumpElements(r *ebml.Reader, masters map[ebml.ID]bool) ([]element, error) {
	var rows []element
	var walk func(depth int) error
	walk = func(depth int) error {
		for {
			if depth == 0 {
				if r.EOF() {
					return nil
				}
			} else if done, err := r.ContainerAtEnd(); err != nil || done {
				return err
			}

			off := r.Tell()
			id, err := r.PeekID()
			if err != nil {
				return err
			}
			i := len(rows)
			rows = append(rows, element{Depth: depth, Offset: off, ID: id})
			if masters[id] {
				if _, err := r.Container(); err != nil {
					return err
				}
				if err := walk(depth + 1); err != nil {
					return err
				}
			} else if err := r.SkipElement(); err != nil {
				return err
			}
			rows[i].Length = r.Tell() - off
		}
	}
	return rows, walk(0)
}

func renderElements(w io.Writer, rows []element) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Depth", "Offset", "ID", "Length"})
	for _, e := range rows {
		table.Append([]string{
			strconv.Itoa(e.Depth),
			strconv.FormatInt(e.Offset, 10),
			e.ID.String(),
			strconv.FormatInt(e.Length, 10),
		})
	}
	table.Render()
}

func init() {
	dumpCmd.Flags().StringSlice(flagMaster, nil, "Ids of container elements to descend into, e.g. 0x4081,0x82.")
	rootCmd.AddCommand(dumpCmd)
}
