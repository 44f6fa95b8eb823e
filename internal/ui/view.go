package ui

import (
	"fmt"
	"strings"

	"mediafetch/internal/progress"
	"mediafetch/internal/util/format"
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("mediafetch"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("q: quit"))
	b.WriteString("\n\n")
	b.WriteString(m.viewJob())
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewJob() string {
	stageStyle := m.styles.JobInfo
	switch m.stage {
	case progress.StageMetadata:
		stageStyle = m.styles.StageMeta
	case progress.StageDownloading:
		stageStyle = m.styles.StageDL
	case progress.StagePostprocessing:
		stageStyle = m.styles.StagePost
	case progress.StageCompleted:
		stageStyle = m.styles.Success
	case progress.StageError:
		stageStyle = m.styles.Error
	}

	line1 := fmt.Sprintf("%s  %s", m.styles.JobTitle.Render(truncate(m.label, 56)), stageStyle.Render(string(m.stage)))

	var line2 string
	switch {
	case m.done && m.err == nil:
		line2 = m.styles.Success.Render("✓ done")
	case m.err != nil:
		line2 = m.styles.Error.Render("✗ error")
	case m.percent >= 0 && m.percent <= 100:
		line2 = fmt.Sprintf("%s %5.1f%%", m.bar.ViewAs(m.percent/100.0), m.percent)
		if extra := m.transferInfo(); extra != "" {
			line2 += "  " + m.styles.Faint.Render(extra)
		}
	default:
		line2 = m.styles.Spinner.Render(m.spinner.View()) + " " + m.styles.Faint.Render("working")
	}

	status := m.status
	if m.done && m.err == nil && m.outputPath != "" {
		status = fmt.Sprintf("Saved: %s (%s)", m.outputPath, format.HumanSize(m.bytes))
	}
	lines := []string{line1, line2, m.styles.JobInfo.Render(status)}
	if !m.done && m.lastLog != "" {
		lines = append(lines, m.styles.Faint.Render(truncate(m.lastLog, 80)))
	}
	return m.styles.Box.Render(strings.Join(lines, "\n"))
}

func (m Model) transferInfo() string {
	var parts []string
	if m.total != "" {
		parts = append(parts, m.total)
	}
	if m.speed != "" {
		parts = append(parts, m.speed)
	}
	if m.eta > 0 {
		parts = append(parts, "ETA "+m.eta.String())
	}
	return strings.Join(parts, " • ")
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
