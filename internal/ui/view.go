package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/sims-ims/sims-client/internal/edit"
	"github.com/sims-ims/sims-client/internal/format/table"
	"github.com/sims-ims/sims-client/internal/logging/events"
	"github.com/sims-ims/sims-client/internal/session"
	uistate "github.com/sims-ims/sims-client/internal/ui/state"
	"github.com/sims-ims/sims-client/internal/workspace"
)

const appTitle = "SIMS"

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	switch st := m.session.State().(type) {
	case session.Unauthenticated:
		return m.viewLogin(st)
	case session.Authenticating:
		return m.viewAuthenticating()
	default:
		return m.viewInventory()
	}
}

func (m *Model) viewLogin(st session.Unauthenticated) string {
	lines := []styledLine{
		{text: appTitle, style: styles.Title},
		{},
		{text: styles.Label.Render("Username") + m.login.username.View(), raw: true},
		{text: styles.Label.Render("Password") + m.login.password.View(), raw: true},
	}
	if st.ErrorMessage != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: st.ErrorMessage, style: styles.Error})
	}
	lines = append(lines, styledLine{})
	lines = append(lines, styledLine{text: m.help.ShortHelpView(m.keys.loginHelp()), raw: true})
	lines = limitHeight(lines, m.height, m.width)
	return renderLines(applyWidth(lines, m.width))
}

func (m *Model) viewAuthenticating() string {
	lines := []styledLine{
		{text: appTitle, style: styles.Title},
		{},
		{text: m.spinner.View() + " Logging in...", raw: true},
	}
	return renderLines(applyWidth(lines, m.width))
}

func (m *Model) viewInventory() string {
	lines := make([]styledLine, 0, 32)
	lines = append(lines, styledLine{text: m.headerText(), style: styles.Header})
	lines = append(lines, styledLine{text: m.tabBar(), raw: true})
	lines = append(lines, styledLine{})
	lines = append(lines, m.tableLines()...)
	if m.form != nil {
		lines = append(lines, styledLine{})
		for _, row := range strings.Split(m.renderCard(), "\n") {
			lines = append(lines, styledLine{text: row, raw: true})
		}
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: m.help.ShortHelpView(m.keys.ShortHelp()), raw: true})
	}
	// Reserve the last row for the status line.
	lines = limitHeight(lines, m.height-1, m.width)
	lines = applyWidth(lines, m.width)

	var statusLine styledLine
	if m.errMsg != "" {
		statusLine = styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	}
	lines = append(lines, applyWidth([]styledLine{statusLine}, m.width)...)
	return renderLines(lines)
}

func (m *Model) headerText() string {
	header := appTitle + " · " + m.session.Username()
	if m.pending > 0 {
		header += " · loading…"
	}
	return header
}

func (m *Model) tabBar() string {
	current := m.tabs.Current()
	tabs := m.tabs.Tabs()
	parts := make([]string, 0, len(tabs)*2)
	for i, tab := range tabs {
		if i > 0 {
			parts = append(parts, styles.TabSeparator.Render("│"))
		}
		style := styles.Tab
		if tab == current {
			style = styles.ActiveTab
		}
		parts = append(parts, style.Render(tab.String()))
	}
	return strings.Join(parts, "")
}

func alignmentsFor(tab workspace.TabID) []table.Alignment {
	switch tab.Kind {
	case workspace.KindAllShelves:
		return []table.Alignment{table.AlignLeft, table.AlignRight}
	case workspace.KindAllItems:
		return []table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignRight, table.AlignRight}
	default:
		return []table.Alignment{table.AlignLeft, table.AlignRight, table.AlignRight, table.AlignLeft}
	}
}

func (m *Model) tableLines() []styledLine {
	tab := m.tabs.Current()
	l := m.currentList()
	if len(l.Rows) == 0 {
		msg := "(no entries)"
		if m.pending > 0 {
			msg = "Loading…"
		}
		return []styledLine{{text: msg, style: styles.Info}}
	}
	cells := make([][]string, len(l.Rows))
	for i, row := range l.Rows {
		cells[i] = row.Cells
	}
	formatted := table.WithHeader(columnsFor(tab), cells, alignmentsFor(tab))
	lines := []styledLine{{text: "  " + formatted[0], style: styles.ColumnHeader}}

	start, end := 0, len(l.Rows)
	if maxRows := m.maxVisibleRows(); maxRows > 0 && end > maxRows {
		start = l.ViewportOffset
		if start+maxRows > end {
			start = end - maxRows
		}
		end = start + maxRows
	}
	for idx := start; idx < end; idx++ {
		lines = append(lines, m.buildRowLine(formatted[idx+1], idx, l))
	}
	return lines
}

// buildRowLine constructs a single styledLine for a table row. The text is
// padded to the full width so the selected row's background spans it.
func (m *Model) buildRowLine(label string, idx int, l *uistate.List) styledLine {
	lineStyle := styles.Row
	indicatorStyle := styles.RowIndicator
	if idx == l.Cursor {
		lineStyle = styles.SelectedRow
		indicatorStyle = styles.SelectedMark
	}
	fullText := "▌ " + label
	if m.width > 0 {
		if pad := m.width - len([]rune(fullText)); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1,
	}
}

// renderCard draws the floating edit card for the live draft.
func (m *Model) renderCard() string {
	target := m.edits.Current()
	if target == nil || m.form == nil {
		return ""
	}
	rows := []string{styles.CardTitle.Render(target.Title()), ""}
	if len(m.form.fields) == 0 {
		rows = append(rows, styles.Info.Render("Nothing to change here yet."))
	}
	for i, field := range m.form.fields {
		rows = append(rows, styles.Label.Render(fieldLabel(target, field))+m.form.inputs[i].View())
	}
	for i, suggestion := range m.suggestions() {
		mark := "  "
		if i == 0 {
			mark = "→ "
		}
		rows = append(rows, styles.Suggestion.Render(mark+suggestion))
	}
	if msg := edit.ErrorMessage(target); msg != "" {
		rows = append(rows, "", styles.Error.Render(msg))
	}
	rows = append(rows, "", m.help.ShortHelpView(m.keys.formHelp()))
	return styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
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
	m.help.Width = m.width
	events.UI.Resize(m.width, m.height)
	if l, ok := m.lists[m.tabs.Current()]; ok {
		l.EnsureCursorVisible(m.maxVisibleRows())
	}
	return nil
}

func (m *Model) maxVisibleRows() int {
	if m.height <= 0 {
		return -1
	}
	used := 5 // header, tab bar, blank, column header, status line
	if m.form != nil {
		used += 1 + lipgloss.Height(m.renderCard())
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

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) clearInfo() {
	if m.infoMsg == "" {
		return
	}
	if !m.infoExpire.IsZero() && time.Now().Before(m.infoExpire) {
		return
	}
	m.infoMsg = ""
	m.infoExpire = time.Time{}
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
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		line.text = text
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
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
