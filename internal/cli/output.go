// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-pkey.
//
// go-pkey is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jeremyhahn/go-pkey/pkg/altname"
	"github.com/jeremyhahn/go-pkey/pkg/curves"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText  OutputFormat = "text"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintKeyInfo prints detailed key information
func (p *Printer) PrintKeyInfo(info *KeyInfo) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(info)
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "Key Information:\n")
		fmt.Fprintf(p.writer, "  ID:         %s\n", info.ID)
		fmt.Fprintf(p.writer, "  Type:       %s\n", strings.ToUpper(info.Type))
		fmt.Fprintf(p.writer, "  Bits:       %d\n", info.Bits)
		if info.Curve != "" {
			fmt.Fprintf(p.writer, "  Curve:      %s\n", info.Curve)
		}
		fmt.Fprintf(p.writer, "  Private:    %t\n", info.Private)
		fmt.Fprintf(p.writer, "  Sig Size:   %d bytes\n", info.SignatureSize)
		if info.Thumbprint != "" {
			fmt.Fprintf(p.writer, "  Thumbprint: %s\n", info.Thumbprint)
		}
		if len(info.Parameters) > 0 {
			fmt.Fprintln(p.writer, "Parameters:")
			names := make([]string, 0, len(info.Parameters))
			for name := range info.Parameters {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(p.writer, "  %-5s %s\n", name+":", info.Parameters[name])
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSuccess prints a success message
func (p *Printer) PrintSuccess(message string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status":  "success",
			"message": message,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintln(p.writer, message)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSignature prints a signature (base64 encoded)
func (p *Printer) PrintSignature(signature string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"signature": signature,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintln(p.writer, signature)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintVerification prints the result of a signature check
func (p *Printer) PrintVerification(valid bool) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"valid": valid,
		})
	case OutputFormatTable, OutputFormatText:
		if valid {
			fmt.Fprintln(p.writer, "Signature valid")
		} else {
			fmt.Fprintln(p.writer, "Signature invalid")
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintAltNames prints alternative name entries and their encoded extension
func (p *Printer) PrintAltNames(entries []altname.Entry, ext pkix.Extension) error {
	switch p.format {
	case OutputFormatJSON:
		names := make([]map[string]string, len(entries))
		for i, e := range entries {
			names[i] = map[string]string{
				"type":  e.Type.String(),
				"value": string(e.Value),
			}
		}
		return p.printJSON(map[string]interface{}{
			"oid":      ext.Id.String(),
			"critical": ext.Critical,
			"names":    names,
			"der":      base64.StdEncoding.EncodeToString(ext.Value),
		})
	case OutputFormatTable:
		fmt.Fprintf(p.writer, "%-4s %-12s %s\n", "#", "TYPE", "VALUE")
		fmt.Fprintln(p.writer, strings.Repeat("-", 60))
		for i, e := range entries {
			fmt.Fprintf(p.writer, "%-4d %-12s %s\n", i, e.Type, e.Value)
		}
		return nil
	case OutputFormatText:
		fmt.Fprintf(p.writer, "X509v3 Subject Alternative Name:")
		if ext.Critical {
			fmt.Fprint(p.writer, " critical")
		}
		fmt.Fprintln(p.writer)
		parts := make([]string, len(entries))
		for i, e := range entries {
			parts[i] = e.String()
		}
		fmt.Fprintf(p.writer, "    %s\n", strings.Join(parts, ", "))
		fmt.Fprintf(p.writer, "DER: %s\n", hex.EncodeToString(ext.Value))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintCurves prints the supported curves
func (p *Printer) PrintCurves(list []*curves.Curve) error {
	switch p.format {
	case OutputFormatJSON:
		out := make([]map[string]interface{}, len(list))
		for i, c := range list {
			out[i] = map[string]interface{}{
				"name":    c.Name,
				"aliases": c.Aliases,
				"oid":     c.OID.String(),
				"bits":    c.BitSize(),
			}
		}
		return p.printJSON(map[string]interface{}{
			"curves": out,
		})
	case OutputFormatTable:
		fmt.Fprintf(p.writer, "%-18s %-6s %-24s %s\n", "NAME", "BITS", "OID", "ALIASES")
		fmt.Fprintln(p.writer, strings.Repeat("-", 72))
		for _, c := range list {
			fmt.Fprintf(p.writer, "%-18s %-6d %-24s %s\n",
				c.Name, c.BitSize(), c.OID, strings.Join(c.Aliases, ", "))
		}
		return nil
	case OutputFormatText:
		fmt.Fprintln(p.writer, "Curves:")
		for _, c := range list {
			fmt.Fprintf(p.writer, "  - %s (%d bits)\n", c.Name, c.BitSize())
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintNames prints a named list of strings
func (p *Printer) PrintNames(label string, names []string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			label: names,
		})
	case OutputFormatTable, OutputFormatText:
		for _, name := range names {
			fmt.Fprintf(p.writer, "  - %s\n", name)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// printJSON prints data as JSON
func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
