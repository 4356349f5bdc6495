package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/arfenik/goply/ply"
	"github.com/spf13/cobra"
)

var dumpFormat string

var dumpCmd = &cobra.Command{
	Use:   "dump <ply-file>",
	Short: "Dump element and property statistics from a PLY file",
	Long: `Parse a PLY file's header, scan its payload, and report the
byte size each property occupied once loaded.

Supported formats:
  - text: Human-readable text (default)
  - json: JSON format`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "text", "output format (text, json)")
}

type propertyDump struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	IsList    bool   `json:"is_list"`
	ListType  string `json:"list_type,omitempty"`
	BufferLen int    `json:"buffer_bytes"`
}

type elementDump struct {
	Name       string         `json:"name"`
	Count      int            `json:"count"`
	Properties []propertyDump `json:"properties"`
}

type fileDump struct {
	File     string        `json:"file"`
	Format   string        `json:"format"`
	Comments []string      `json:"comments,omitempty"`
	ObjInfo  []string      `json:"obj_info,omitempty"`
	Elements []elementDump `json:"elements"`
}

func scanFile(path string) (*fileDump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	pf := ply.NewFile()
	if err := pf.ParseHeader(f); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	dump := &fileDump{
		File:     path,
		Format:   formatName(pf.Format()),
		Comments: pf.Comments(),
		ObjInfo:  pf.ObjInfo(),
	}

	cursors := make(map[string]*ply.Cursor)
	for _, e := range pf.GetElements() {
		for _, p := range e.Properties {
			cur, err := pf.RequestPropertiesFromElement(e.Name, p.Name)
			if err != nil {
				return nil, fmt.Errorf("requesting %s.%s: %w", e.Name, p.Name, err)
			}
			cursors[e.Name+"."+p.Name] = cur
		}
	}

	if err := pf.Read(f, 0); err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	for _, e := range pf.GetElements() {
		ed := elementDump{Name: e.Name, Count: e.Count}
		for _, p := range e.Properties {
			cur := cursors[e.Name+"."+p.Name]
			pd := propertyDump{Name: p.Name, Type: p.Type.String(), IsList: p.IsList, BufferLen: len(cur.Data)}
			if p.IsList {
				pd.ListType = p.ListType.String()
			}
			ed.Properties = append(ed.Properties, pd)
		}
		dump.Elements = append(dump.Elements, ed)
	}

	return dump, nil
}

func runDump(cmd *cobra.Command, args []string) error {
	path := args[0]

	dump, err := scanFile(path)
	if err != nil {
		return err
	}

	switch dumpFormat {
	case "json":
		return dumpJSON(dump)
	case "text":
		return dumpText(dump)
	default:
		return fmt.Errorf("unknown format: %s", dumpFormat)
	}
}

func dumpJSON(dump *fileDump) error {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(dump)
}

func dumpText(dump *fileDump) error {
	fmt.Fprintf(output, "File: %s\n", dump.File)
	fmt.Fprintf(output, "Format: %s\n", dump.Format)
	for _, c := range dump.Comments {
		fmt.Fprintf(output, "Comment: %s\n", c)
	}
	for _, o := range dump.ObjInfo {
		fmt.Fprintf(output, "ObjInfo: %s\n", o)
	}
	for _, e := range dump.Elements {
		fmt.Fprintf(output, "%s (%d instances)\n", e.Name, e.Count)
		for _, p := range e.Properties {
			if p.IsList {
				fmt.Fprintf(output, "  %s: list<%s,%s> %d bytes\n", p.Name, p.ListType, p.Type, p.BufferLen)
			} else {
				fmt.Fprintf(output, "  %s: %s %d bytes\n", p.Name, p.Type, p.BufferLen)
			}
		}
	}
	return nil
}
