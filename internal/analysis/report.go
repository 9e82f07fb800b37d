package analysis

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// Markdown renders a compact report of the summary, suitable for the terminal or a file.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Dataset != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Dataset))
	}
	b.WriteString(fmt.Sprintf("Run: %s\n", s.RunID))
	if s.Dropped > 0 {
		b.WriteString(fmt.Sprintf("Rows: %d (dropped %d with missing values)\n", s.Rows, s.Dropped))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", s.Rows))
	}
	if s.Matrix != nil {
		b.WriteString(fmt.Sprintf("Numeric columns: %d\n", len(s.Matrix.Columns)))
	}

	b.WriteString("\n[COLUMN ROLES]\n")
	if s.Roles != nil {
		prod := s.Roles.Productivity
		if s.Roles.Fallback {
			prod += " (fallback: last column)"
		}
		b.WriteString(fmt.Sprintf("- productivity: %s\n", prod))
		for _, rc := range s.Roles.Lifestyle() {
			b.WriteString(fmt.Sprintf("- %s: %s\n", rc.Role, rc.Column))
		}
	}

	if len(s.Correlations) > 0 {
		b.WriteString("\n[CORRELATIONS WITH PRODUCTIVITY]\n")
		for _, c := range s.Correlations {
			b.WriteString(fmt.Sprintf("- %s: r=%s\n", c.Column, fmtR(c.R)))
		}
	}

	b.WriteString("\n[QUARTILES]\n")
	b.WriteString(fmt.Sprintf("- Q1 (25%%): %.4g, bottom group n=%d\n", s.Quartiles.Lower, len(s.BottomRows)))
	b.WriteString(fmt.Sprintf("- Q3 (75%%): %.4g, top group n=%d\n", s.Quartiles.Upper, len(s.TopRows)))

	if len(s.Means) > 0 {
		b.WriteString("\n[GROUP MEANS]\n")
		b.WriteString("| Habit | Top 25% | Bottom 25% |\n")
		b.WriteString("| --- | --- | --- |\n")
		for _, m := range s.Means {
			b.WriteString(fmt.Sprintf("| %s | %.4g | %.4g |\n", Humanize(m.Column), m.Top, m.Bottom))
		}
	}

	if tr := s.Trend; tr != nil && tr.Fitted {
		b.WriteString("\n[TREND]\n")
		b.WriteString(fmt.Sprintf("- %s ~ %s: slope %.4g, intercept %.4g, R² %.3f\n", tr.YColumn, tr.XColumn, tr.Slope, tr.Intercept, tr.RSquared))
	}

	if s.Roles != nil && len(s.Roles.Notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range s.Roles.Notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func fmtR(r float64) string {
	if math.IsNaN(r) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", r)
}

// Humanize turns a column name like "study_hours_per_day" into "Study Hours Per Day".
func Humanize(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
