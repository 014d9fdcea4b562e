package picker

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const rowIndicator = "▌"

// span overrides the line style for runes in [from, to).
type span struct {
	from, to int
	style    *lipgloss.Style
}

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	spans         []span
	raw           bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := make([]styledLine, 0, 16)
	if m.title != "" {
		lines = append(lines, styledLine{text: m.title, style: styles.Title})
	}
	m.syncViewport()
	total := m.delegate.MatchCount()
	if total == 0 {
		msg := "(no entries)"
		if q := m.query.Trimmed(); q != "" {
			msg = fmt.Sprintf("No matches for %q", q)
		}
		lines = append(lines, styledLine{text: msg, style: styles.Info})
	} else {
		start, end := m.viewport.Window(total, m.maxVisibleItems())
		selected := m.delegate.SelectedIndex()
		for ix := start; ix < end; ix++ {
			row, ok := m.delegate.RenderMatch(ix, ix == selected)
			if !ok {
				continue
			}
			lines = append(lines, buildRowLine(row, m.width))
		}
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: m.footer, style: styles.Footer})
	}
	lines = limitHeight(lines, m.height-2, m.width)
	lines = applyWidth(lines, m.width)

	var statusLine styledLine
	if m.errMsg != "" {
		statusLine = styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	}
	bottomLines := []styledLine{
		statusLine,
		{text: m.queryPromptLine(), raw: true},
	}
	lines = append(lines, applyWidth(bottomLines, m.width)...)
	return renderLines(lines)
}

// buildRowLine lays out a row as indicator, label and optional hint. Matched
// runes of the label are highlighted; the selected row is padded to width so
// its background spans the whole line.
func buildRowLine(row Row, width int) styledLine {
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	matchStyle := styles.Highlight
	if row.Selected {
		lineStyle = styles.SelectedItem
		indicatorStyle = styles.SelectedItemIndicator
		matchStyle = styles.SelectedHighlight
	}
	prefix := rowIndicator + " "
	offset := len([]rune(prefix))
	label := []rune(row.Label)
	text := prefix + row.Label

	spans := highlightSpans(row.Positions, len(label), offset, matchStyle)
	if row.Hint != "" {
		hintFrom := len([]rune(text)) + 2
		text += "  " + row.Hint
		if !row.Selected {
			spans = append(spans, span{from: hintFrom, to: len([]rune(text)), style: styles.Hint})
		}
	}
	if width > 0 {
		if pad := width - len([]rune(text)); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          text,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1,
		spans:         spans,
	}
}

// highlightSpans merges sorted rune positions into contiguous spans shifted by
// offset. Positions outside [0, limit) are ignored.
func highlightSpans(positions []int, limit, offset int, style *lipgloss.Style) []span {
	if len(positions) == 0 || style == nil {
		return nil
	}
	sorted := append([]int(nil), positions...)
	sort.Ints(sorted)
	var spans []span
	for _, p := range sorted {
		if p < 0 || p >= limit {
			continue
		}
		at := p + offset
		if n := len(spans); n > 0 && spans[n-1].to >= at {
			if spans[n-1].to == at {
				spans[n-1].to = at + 1
			}
			continue
		}
		spans = append(spans, span{from: at, to: at + 1, style: style})
	}
	return spans
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.syncViewport()
	return nil
}

func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := 2 // bottom bar: error/status + query prompt
	if m.title != "" {
		used++
	}
	if info := m.currentInfo(); info != "" {
		used += 2
	}
	if m.showFooter {
		used += 2
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		if line.raw {
			if lipgloss.Width(line.text) > width {
				line.text = truncate.StringWithTail(line.text, uint(width-1), "…")
			}
		} else {
			line.text = truncateText(line.text, width)
		}
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.render()
	}
	return strings.Join(out, "\n")
}

// render applies prefixStyle to the first highlightFrom runes, span styles to
// their ranges and style to everything else. Adjacent runes sharing a style
// are rendered together.
func (l styledLine) render() string {
	if l.raw {
		return l.text
	}
	runes := []rune(l.text)
	if len(l.spans) == 0 && (l.highlightFrom <= 0 || l.highlightFrom >= len(runes)) {
		if l.style != nil {
			return l.style.Render(l.text)
		}
		return l.text
	}
	var b strings.Builder
	start := 0
	current := l.styleAt(0)
	for i := 1; i <= len(runes); i++ {
		if i < len(runes) && l.styleAt(i) == current {
			continue
		}
		chunk := string(runes[start:i])
		if current != nil {
			chunk = current.Render(chunk)
		}
		b.WriteString(chunk)
		if i < len(runes) {
			start = i
			current = l.styleAt(i)
		}
	}
	return b.String()
}

func (l styledLine) styleAt(i int) *lipgloss.Style {
	if i < l.highlightFrom {
		return l.prefixStyle
	}
	for _, s := range l.spans {
		if i >= s.from && i < s.to {
			return s.style
		}
	}
	return l.style
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
