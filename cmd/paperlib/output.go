package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"go.yaml.in/yaml/v3"

	"github.com/csheth/paperlib/internal/library"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unsupported format %q: use table, json or yaml", format)
}

// encode writes v as JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q", format)
}

func writePapers(w io.Writer, format string, papers []library.Paper) error {
	if format != formatTable {
		return encode(w, format, papers)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPUBLISHED\tTITLE")
	for _, p := range papers {
		status := "-"
		if p.InLibrary() {
			status = string(p.Status)
		}
		published := p.Published
		if len(published) >= 10 {
			published = published[:10]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, status, published, oneLine(p.Title))
	}
	return tw.Flush()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
