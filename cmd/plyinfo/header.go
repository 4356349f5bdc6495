package main

import (
	"fmt"
	"os"

	"github.com/arfenik/goply/ply"
	"github.com/spf13/cobra"
)

var headerCmd = &cobra.Command{
	Use:   "header <ply-file>",
	Short: "Display a PLY file's header structure",
	Long:  `Parse and display a PLY file's format, metadata, and element/property declarations without reading the payload.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHeader,
}

func runHeader(cmd *cobra.Command, args []string) error {
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	pf := ply.NewFile()
	if err := pf.ParseHeader(f); err != nil {
		return fmt.Errorf("failed to parse header: %w", err)
	}

	fmt.Fprintf(output, "PLY File: %s\n", path)
	fmt.Fprintf(output, "Format: %s\n", formatName(pf.Format()))

	for _, c := range pf.Comments() {
		fmt.Fprintf(output, "Comment: %s\n", c)
	}
	for _, o := range pf.ObjInfo() {
		fmt.Fprintf(output, "ObjInfo: %s\n", o)
	}

	fmt.Fprintf(output, "Elements: %d\n", len(pf.GetElements()))
	for _, e := range pf.GetElements() {
		fmt.Fprintf(output, "  %s (%d)\n", e.Name, e.Count)
		for _, p := range e.Properties {
			if p.IsList {
				fmt.Fprintf(output, "    property list %s %s %s\n", p.ListType, p.Type, p.Name)
			} else {
				fmt.Fprintf(output, "    property %s %s\n", p.Type, p.Name)
			}
		}
	}

	return nil
}

func formatName(f ply.Format) string {
	switch f {
	case ply.ASCII:
		return "ascii"
	case ply.BinaryLittleEndian:
		return "binary_little_endian"
	case ply.BinaryBigEndian:
		return "binary_big_endian"
	default:
		return "unknown"
	}
}
