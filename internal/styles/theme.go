package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#2563EB")
	Secondary = lipgloss.Color("#10B981")
	Accent    = lipgloss.Color("#F59E0B")
	Error     = lipgloss.Color("#EF4444")
	Muted     = lipgloss.Color("#6B7280")
	White     = lipgloss.Color("#FFFFFF")
	LightGray = lipgloss.Color("#E5E7EB")
	PanelBg   = lipgloss.Color("#111827")

	// Message styles
	UserLabel = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	UserMessage = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(White).
			Bold(true)

	AgentLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	AgentMessage = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(LightGray)

	Thought = lipgloss.NewStyle().
		Foreground(Muted).
		Italic(true).
		PaddingLeft(2)

	// Tool and build-progress styles
	ToolLine = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true).
			PaddingLeft(2)

	ToolName = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	ToolStatus = lipgloss.NewStyle().
			Foreground(Secondary)

	FileWrite = lipgloss.NewStyle().
			Foreground(Accent).
			PaddingLeft(2)

	PlanDone = lipgloss.NewStyle().
			Foreground(Secondary)

	PlanActive = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	PlanPending = lipgloss.NewStyle().
			Foreground(Muted)

	ArtifactNotice = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true).
			PaddingLeft(2)

	// Sidebar styles
	SidebarTitle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Padding(0, 1)

	SidebarItem = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)

	SidebarSelected = lipgloss.NewStyle().
			Foreground(White).
			Background(Primary).
			Padding(0, 1)

	SidebarPending = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true).
			Padding(0, 1)

	SidebarBorder = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(Muted)

	// Input styles
	InputBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	// Status bar styles
	StatusBar = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1)

	StatusBarStreaming = lipgloss.NewStyle().
				Foreground(Primary).
				Padding(0, 1)

	StatusBarError = lipgloss.NewStyle().
			Foreground(Error).
			Padding(0, 1)

	// Header
	Header = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		Padding(0, 1)

	// Cursor for streaming
	StreamingCursor = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
)
