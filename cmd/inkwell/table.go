package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"inkwell/internal/session"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// paintStageStatus colors a stage status label when stdout is a
// terminal; plain output stays pipe-friendly.
func paintStageStatus(status session.StageStatus) string {
	label := string(status)
	if !stdoutIsTerminal() {
		return label
	}
	switch status {
	case session.StageCompleted:
		return text.FgGreen.Sprint(label)
	case session.StageFailed:
		return text.FgRed.Sprint(label)
	case session.StageProcessing:
		return text.FgYellow.Sprint(label)
	case session.StageSkipped:
		return text.FgHiBlack.Sprint(label)
	default:
		return label
	}
}

func paintSessionStatus(status session.Status) string {
	label := string(status)
	if !stdoutIsTerminal() {
		return label
	}
	switch status {
	case session.StatusCompleted:
		return text.FgGreen.Sprint(label)
	case session.StatusFailed:
		return text.FgRed.Sprint(label)
	case session.StatusRunning:
		return text.FgYellow.Sprint(label)
	default:
		return label
	}
}
