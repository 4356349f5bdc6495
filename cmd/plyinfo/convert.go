package main

import (
	"fmt"
	"os"

	"github.com/arfenik/goply/ply"
	"github.com/spf13/cobra"
)

var convertTo string

var convertCmd = &cobra.Command{
	Use:   "convert <input.ply> <output.ply>",
	Short: "Convert a PLY file between ascii and binary payload encodings",
	Long: `Read a PLY file's full payload and re-emit it as a new file using
the requested encoding, preserving elements, properties, comments, and
obj_info.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertTo, "to", "t", "binary", "target encoding (ascii, binary)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inPath, outPath := args[0], args[1]

	var binaryOut bool
	switch convertTo {
	case "ascii":
		binaryOut = false
	case "binary":
		binaryOut = true
	default:
		return fmt.Errorf("unknown target encoding: %s", convertTo)
	}

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", inPath, err)
	}
	defer in.Close()

	src := ply.NewFile()
	if err := src.ParseHeader(in); err != nil {
		return fmt.Errorf("failed to parse header: %w", err)
	}

	dst := ply.NewFile()
	for _, c := range src.Comments() {
		dst.AddComment(c)
	}
	for _, o := range src.ObjInfo() {
		dst.AddObjInfo(o)
	}

	type binding struct {
		elem, prop string
		cur        *ply.Cursor
	}
	var bindings []binding

	for _, e := range src.GetElements() {
		for _, p := range e.Properties {
			cur, err := src.RequestPropertiesFromElement(e.Name, p.Name)
			if err != nil {
				return fmt.Errorf("requesting %s.%s: %w", e.Name, p.Name, err)
			}
			bindings = append(bindings, binding{e.Name, p.Name, cur})
		}
	}

	if err := src.Read(in, 0); err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}

	for _, b := range bindings {
		e := src.Element(b.elem)
		p := e.Property(b.prop)
		dstCur, err := dst.AddPropertiesToElement(b.elem, []string{b.prop}, p.Type, e.Count, b.cur.Data, p.ListType, p.ListCount)
		if err != nil {
			return fmt.Errorf("attaching %s.%s: %w", b.elem, b.prop, err)
		}
		dstCur.ListSizes = b.cur.ListSizes
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer out.Close()

	if err := dst.Write(out, binaryOut); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Fprintf(output, "Converted %s -> %s (%s)\n", inPath, outPath, convertTo)
	return nil
}
