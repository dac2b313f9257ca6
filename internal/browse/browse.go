// Package browse is the interactive terminal browser for scored jobs: a
// ranked list with a scrollable detail view per job.
package browse

import (
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/resumatch/jobfeed/internal/model"
)

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")) // bright blue

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")). // bright white
				Background(lipgloss.Color("24"))  // dark blue bg

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	scoreHighStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")) // green

	scoreLowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(16)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	sectionDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	sectionBodyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))
)

type browseModel struct {
	jobs     []model.Job
	listView viewport.Model
	cursor   int
	width    int
	height   int
	ready    bool

	view           viewState
	detailJob      model.Job
	detailViewport viewport.Model
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	// Forward other keys (pgup/pgdn/home/end) to the viewport.
	var cmd tea.Cmd
	m.listView, cmd = m.listView.Update(msg)
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		if m.detailJob.SourceURL != "" {
			openURL(m.detailJob.SourceURL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *browseModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.jobs)-1, 0))
}

func (m *browseModel) ensureCursorVisible() {
	cursorTop := m.cursor * jobItemHeight
	cursorBottom := cursorTop + jobItemHeight - 1

	if cursorTop < m.listView.YOffset {
		m.listView.SetYOffset(cursorTop)
	} else if cursorBottom >= m.listView.YOffset+m.listView.Height {
		m.listView.SetYOffset(cursorBottom - m.listView.Height + 1)
	}
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	if len(m.jobs) == 0 {
		return m, nil
	}

	m.view = viewDetail
	m.detailJob = m.jobs[m.cursor]
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *browseModel) recalcLayout() {
	paneWidth := max(m.width-2, 20)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.listView = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.listView.Width = paneWidth
		m.listView.Height = paneHeight
	}

	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	m.listView.SetContent(renderJobs(m.jobs, m.cursor))
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.view == viewDetail {
		return m.viewDetail()
	}

	return m.viewList()
}

func (m browseModel) viewList() string {
	header := headerStyle.Render(fmt.Sprintf(" Jobs (%d)", len(m.jobs)))
	pane := borderStyle.Width(m.listView.Width).Render(m.listView.View())

	statusText := " ↑/↓ cursor  Enter detail  q quit"
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return header + "\n" + pane + "\n" + statusBar
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Details")

	border := borderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())

	statusText := " esc/backspace back  ↑/↓ scroll  q quit"
	if m.detailJob.SourceURL != "" {
		statusText = " o open URL  esc/backspace back  ↑/↓ scroll  q quit"
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m browseModel) renderDetail() string {
	j := m.detailJob
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", j.Title)
	addField("Company", j.Company)
	addField("Location", j.Location)
	addField("Score", fmt.Sprintf("%d / 100", j.MatchScore))
	addField("Source", j.Source)
	addField("Salary", j.Salary)
	addField("Type", j.EmploymentType)
	addField("Seniority", j.Seniority)
	if j.PostedAt != nil {
		addField("Posted At", j.PostedAt.Format("2006-01-02"))
	}
	if len(j.Skills) > 0 {
		addField("Skills", strings.Join(j.Skills, ", "))
	}
	addField("Job URL", j.SourceURL)

	wrapWidth := max(m.width-8, 20)
	divider := func(label string) string {
		fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
		return sectionDividerStyle.Render(label + fill)
	}
	addSection := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteByte('\n')
		b.WriteString(divider("── "+label+" ") + "\n\n")
		for _, item := range items {
			b.WriteString(sectionBodyStyle.Render("  • "+wordWrap(item, wrapWidth-4)) + "\n")
		}
	}

	addSection("Responsibilities", j.Responsibilities)
	addSection("Requirements", j.Requirements)
	addSection("Benefits", j.Benefits)

	if j.CleanDescription != "" {
		b.WriteByte('\n')
		b.WriteString(divider("── Description ") + "\n\n")
		b.WriteString(sectionBodyStyle.Render(wordWrap(j.CleanDescription, wrapWidth)) + "\n")
	}

	return b.String()
}

func renderJobs(jobs []model.Job, cursor int) string {
	if len(jobs) == 0 {
		return "  (no jobs)"
	}

	var b strings.Builder
	for i, j := range jobs {
		isSelected := i == cursor

		titleSt := jobTitleStyle
		subtitleSt := jobSubtitleStyle
		prefix := "  "
		if isSelected {
			titleSt = selectedJobTitleStyle
			subtitleSt = selectedJobSubtitleStyle
			prefix = "> "
		}

		scoreSt := scoreLowStyle
		if j.MatchScore >= 60 {
			scoreSt = scoreHighStyle
		}

		b.WriteString(prefix)
		b.WriteString(scoreSt.Render(fmt.Sprintf("%3d", j.MatchScore)))
		b.WriteString(" ")
		b.WriteString(titleSt.Render(j.Title))
		b.WriteByte('\n')

		location := j.Location
		if location == "" {
			location = "n/a"
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("    %s · %s", j.Company, location)))
		b.WriteByte('\n')

		if i < len(jobs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sortJobsByScore(jobs []model.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].MatchScore > jobs[j].MatchScore
	})
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Run launches the interactive job browser, highest score first.
func Run(jobs []model.Job) error {
	sorted := make([]model.Job, len(jobs))
	copy(sorted, jobs)
	sortJobsByScore(sorted)

	p := tea.NewProgram(browseModel{jobs: sorted}, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
