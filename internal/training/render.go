package training

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	hitStyle    = cellStyle.Foreground(lipgloss.Color("10")).Bold(true)
	missStyle   = cellStyle.Foreground(lipgloss.Color("9"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Render formats the report the way severityctl prints it: accuracy, a
// classification report and the confusion matrix.
func Render(r Report) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Accuracy: %.4f", r.Accuracy)))
	sb.WriteString("\n\n")

	sb.WriteString(titleStyle.Render("Classification report"))
	sb.WriteString("\n")
	rows := make([][]string, 0, len(r.Classes)+2)
	for _, c := range r.Classes {
		rows = append(rows, metricsRow(strconv.Itoa(c.Label), c))
	}
	rows = append(rows, metricsRow("macro avg", r.MacroAvg), metricsRow("weighted avg", r.WeightedAvg))
	sb.WriteString(table([]string{"", "precision", "recall", "f1-score", "support"}, rows, nil))
	sb.WriteString("\n")

	sb.WriteString(titleStyle.Render("Confusion matrix (rows: true, columns: predicted)"))
	sb.WriteString("\n")
	header := []string{""}
	for _, l := range r.Labels {
		header = append(header, strconv.Itoa(l))
	}
	cm := make([][]string, len(r.Labels))
	for i, l := range r.Labels {
		cm[i] = []string{strconv.Itoa(l)}
		for _, n := range r.Confusion[i] {
			cm[i] = append(cm[i], strconv.Itoa(n))
		}
	}
	sb.WriteString(table(header, cm, func(row, col int) lipgloss.Style {
		switch {
		case col == 0:
			return headerStyle
		case row == col-1:
			return hitStyle
		case r.Confusion[row][col-1] > 0:
			return missStyle
		}
		return cellStyle
	}))

	return sb.String()
}

func metricsRow(name string, c ClassMetrics) []string {
	return []string{
		name,
		fmt.Sprintf("%.2f", c.Precision),
		fmt.Sprintf("%.2f", c.Recall),
		fmt.Sprintf("%.2f", c.F1),
		strconv.Itoa(c.Support),
	}
}

func table(headers []string, rows [][]string, style func(row, col int) lipgloss.Style) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	// padding
	total := len(headers) - 1
	for i := range widths {
		widths[i] += 2
		total += widths[i]
	}

	sep := mutedStyle.Render("|")
	var sb strings.Builder

	for i, h := range headers {
		sb.WriteString(headerStyle.Width(widths[i]).Render(h))
		if i < len(headers)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for ri, row := range rows {
		for i, cell := range row {
			st := cellStyle
			if i == 0 {
				st = headerStyle
			}
			if style != nil {
				st = style(ri, i)
			}
			sb.WriteString(st.Width(widths[i]).Render(cell))
			if i < len(row)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
