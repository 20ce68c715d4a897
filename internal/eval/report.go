package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Render formats the per-source table followed by the overall rollup.
func Render(res Result) string {
	if res.Total.TotalQuestions == 0 {
		return "No questions evaluated."
	}
	sources := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Source", "Total", "Correct", "Accuracy", "High", "Medium", "Low", "Avg confidence")
	for _, s := range res.Sources {
		sources.Row(
			s.Source,
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Correct),
			percent(s.Accuracy()),
			strconv.Itoa(s.HighConf),
			strconv.Itoa(s.MedConf),
			strconv.Itoa(s.LowConf),
			percent(s.AvgConfidence),
		)
	}

	t := res.Total
	totals := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Rows(
			[]string{"Total questions", strconv.Itoa(t.TotalQuestions)},
			[]string{"Correct answers", strconv.Itoa(t.TotalCorrect)},
			[]string{"Accuracy", percent(t.Accuracy())},
			[]string{"High confidence (>80%)", strconv.Itoa(t.TotalHighConf)},
			[]string{"Medium confidence (50-80%)", strconv.Itoa(t.TotalMedConf)},
			[]string{"Low confidence (<=50%)", strconv.Itoa(t.TotalLowConf)},
			[]string{"Average confidence", percent(t.AvgConfidence)},
		)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Results by source"))
	b.WriteString("\n")
	b.WriteString(sources.Render())
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Overall"))
	b.WriteString("\n")
	b.WriteString(totals.Render())
	b.WriteString("\n")
	return b.String()
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
