package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"menuhub/internal/usecase/restaurantimport"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func renderImportResult(result restaurantimport.Result) string {
	var b strings.Builder

	if result.Success {
		b.WriteString(okStyle.Render("import completed"))
	} else {
		b.WriteString(errorStyle.Render("import failed"))
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  audit log #%d", result.AuditLogID)))
	b.WriteString("\n")

	if result.Success {
		b.WriteString(result.Summary)
		b.WriteString("\n")
		if result.Stats != nil {
			b.WriteString(titleStyle.Render(fmt.Sprintf("%-12s %8s %8s %8s", "entity", "created", "updated", "errors")))
			b.WriteString("\n")
			rows := []struct {
				name     string
				counters restaurantimport.Counters
			}{
				{"restaurants", result.Stats.Restaurants},
				{"menus", result.Stats.Menus},
				{"menu_items", result.Stats.MenuItems},
			}
			for _, row := range rows {
				fmt.Fprintf(&b, "%-12s %8d %8d %8d\n", row.name, row.counters.Created, row.counters.Updated, row.counters.Errors)
			}
		}
		if result.Duration != nil {
			b.WriteString(dimStyle.Render(fmt.Sprintf("duration %.3fs", *result.Duration)))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(result.Error)
		b.WriteString("\n")
	}

	for _, entry := range result.Logs {
		if entry.Level != restaurantimport.LevelError {
			continue
		}
		b.WriteString(errorStyle.Render("ERROR"))
		fmt.Fprintf(&b, " %s %s\n", dimStyle.Render(entry.Timestamp), entry.Message)
	}

	return b.String()
}

func renderAuditLogs(items []restaurantimport.AuditLogView) string {
	if len(items) == 0 {
		return dimStyle.Render("no import runs") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%-6s %-10s %-24s %6s %6s %6s  %s", "id", "status", "file", "total", "ok", "failed", "created")))
	b.WriteString("\n")
	for _, item := range items {
		fileName := "-"
		if item.FileName != nil {
			fileName = *item.FileName
		}
		status := item.Status
		switch status {
		case "completed":
			status = okStyle.Render(fmt.Sprintf("%-10s", status))
		case "failed":
			status = errorStyle.Render(fmt.Sprintf("%-10s", status))
		default:
			status = fmt.Sprintf("%-10s", status)
		}
		fmt.Fprintf(&b, "%-6d %s %-24s %6d %6d %6d  %s\n",
			item.ID, status, fileName, item.TotalRecords, item.SuccessfulRecords, item.FailedRecords,
			item.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return b.String()
}
