package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/gpt-shim/config"
	"github.com/wippyai/gpt-shim/machine"
	"github.com/wippyai/gpt-shim/mangle"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")).Bold(true)
	cellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// printList writes the alias table with the active scheme highlighted,
// followed by the platform descriptor and machine identifiers.
func printList(w io.Writer, cfg config.Config) error {
	active, err := cfg.Scheme()
	if err != nil {
		return err
	}
	caps, err := cfg.Capabilities()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, titleStyle.Render("gptshim"), "module", cfg.Bridge.Module, "scheme", active)
	fmt.Fprintln(w)
	fmt.Fprint(w, renderTable(mangle.DefaultTable(), active))
	fmt.Fprintln(w)

	m, err := machine.New(caps)
	if err != nil {
		return err
	}
	defer m.Close()
	node, pid, thread, err := m.PInfo()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "platform: %s\n", caps)
	if caps.Ambiguous() {
		fmt.Fprintln(w, "warning: several decoration flags set, resolved by precedence")
	}
	if host, err := caps.Hostname(); err == nil {
		fmt.Fprintf(w, "host:     %s\n", host)
	}
	fmt.Fprintf(w, "pinfo:    node=%d process=%d thread=%d\n", node, pid, thread)
	return nil
}

func renderTable(t *mangle.Table, active mangle.Scheme) string {
	schemes := append([]mangle.Scheme{mangle.SchemeNone}, mangle.Schemes...)

	rows := [][]string{{"routine"}}
	for _, s := range schemes {
		rows[0] = append(rows[0], s.String())
	}
	for _, name := range t.Canonical() {
		aliases, _ := t.Aliases(name)
		row := []string{name}
		for _, s := range schemes {
			row = append(row, aliases.For(s))
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	var b strings.Builder
	for r, row := range rows {
		for i, cell := range row {
			padded := cell + strings.Repeat(" ", widths[i]-len(cell)+2)
			switch {
			case r == 0:
				b.WriteString(headerStyle.Render(padded))
			case i > 0 && schemes[i-1] == active:
				b.WriteString(activeStyle.Render(padded))
			case i > 0:
				b.WriteString(cellStyle.Render(padded))
			default:
				b.WriteString(padded)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
