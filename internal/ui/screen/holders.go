package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/tokenstats/internal/format"
	"github.com/rovshanmuradov/tokenstats/internal/types"
	"github.com/rovshanmuradov/tokenstats/internal/ui"
	"github.com/rovshanmuradov/tokenstats/internal/ui/component"
	"github.com/rovshanmuradov/tokenstats/internal/ui/router"
	"github.com/rovshanmuradov/tokenstats/internal/ui/style"
)

// HoldersScreen shows special wallets and a paged list of regular holders
type HoldersScreen struct {
	provider ui.ServiceProvider
	keyMap   ui.KeyMap
	width    int
	height   int

	// UI components
	header  *component.StatusHeader
	helpBar *component.HelpBar
	spinner spinner.Model

	// State
	gen       uint64
	table     *types.HolderTable
	err       error
	loading   bool
	exporting bool
	page      int
}

// NewHoldersScreen creates the holders screen for the configured token
func NewHoldersScreen(provider ui.ServiceProvider, symbol, mint string) *HoldersScreen {
	keyMap := ui.DefaultKeyMap()

	header := component.NewStatusHeader(symbol, mint)
	header.SetRoute(ui.RouteHolders)

	return &HoldersScreen{
		provider: provider,
		keyMap:   keyMap,
		header:   header,
		helpBar:  component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteHolders)),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(style.InfoStyle)),
		page:     1,
	}
}

// Init starts the holder enumeration
func (s *HoldersScreen) Init() tea.Cmd {
	return tea.Batch(s.refresh(), s.spinner.Tick)
}

func (s *HoldersScreen) refresh() tea.Cmd {
	s.gen++
	s.loading = true
	return ui.FetchHolders(s.provider, s.gen)
}

// Update handles messages for the holders screen
func (s *HoldersScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.HoldersLoadedMsg:
		if msg.Gen != s.gen {
			return s, nil
		}
		s.loading = false
		s.err = msg.Err
		if msg.Table != nil {
			s.table = msg.Table
			s.header.SetLastUpdate(msg.Table.FetchedAt)
			if s.page > s.table.PageCount() {
				s.page = 1
			}
		}
		return s, nil

	case ui.StatsLoadedMsg:
		if msg.Stats != nil {
			s.header.SetSymbol(msg.Stats.Symbol)
			s.header.SetSample(msg.Stats.Sample)
		}
		return s, nil

	case ui.ExportedMsg:
		s.exporting = false
		if msg.Err != nil {
			s.helpBar.SetStatus("Export failed: "+msg.Err.Error(), true)
		} else {
			s.helpBar.SetStatus("Exported to "+msg.Path, false)
		}
		return s, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.Refresh):
			s.provider.Backend().Invalidate()
			s.helpBar.SetStatus("", false)
			return s, s.refresh()
		case key.Matches(msg, s.keyMap.Left):
			if s.page > 1 {
				s.page--
			}
		case key.Matches(msg, s.keyMap.Right):
			if s.table != nil && s.page < s.table.PageCount() {
				s.page++
			}
		case key.Matches(msg, s.keyMap.Export):
			if s.table == nil || s.exporting {
				return s, nil
			}
			s.exporting = true
			s.helpBar.SetStatus("Exporting...", false)
			return s, ui.ExportHolders(s.provider, s.table)
		}
	}
	return s, nil
}

// SetSize sets the screen dimensions
func (s *HoldersScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.header.SetWidth(width)
	s.helpBar.SetWidth(width)
}

// Page returns the displayed page of regular holders
func (s *HoldersScreen) Page() int {
	return s.page
}

// View renders the holders screen
func (s *HoldersScreen) View() string {
	if s.loading {
		s.header.SetLoading(s.spinner.View())
	} else {
		s.header.SetLoading("")
	}

	sections := []string{s.header.View()}
	switch {
	case s.table != nil:
		sections = append(sections, s.renderTable()...)
	case s.err != nil:
		sections = append(sections,
			style.ErrorStyle.Render("Holders unavailable: "+s.err.Error()),
			style.NoDataStyle.Render(format.NoData))
	default:
		sections = append(sections, style.NoDataStyle.Render("Enumerating token accounts..."))
	}
	sections = append(sections, s.helpBar.View())

	return style.ContainerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (s *HoldersScreen) renderTable() []string {
	t := s.table
	out := []string{style.SubHeaderStyle.Render("Special Wallets")}

	special := component.NewTable().SetColumns([]component.TableColumn{
		{Header: "Role", Width: 10},
		{Header: "Address", Width: 14},
		{Header: "Balance", Width: 10, Align: lipgloss.Right},
		{Header: "Share", Width: 8, Align: lipgloss.Right},
		{Header: "Value", Width: 10, Align: lipgloss.Right},
	})
	for _, h := range t.Special {
		special.AddRow([]string{
			h.Role.Label(),
			format.Address(h.Owner),
			format.Balance(h.BalanceFloat()),
			format.Percent(h.PercentOfSupply),
			format.HolderValue(h),
		}, &style.SpecialStyle)
	}
	if len(t.Special) == 0 {
		out = append(out, style.NoDataStyle.Render("No special wallet holds this token"))
	} else {
		out = append(out, special.View())
	}

	out = append(out, style.SubHeaderStyle.Render(
		fmt.Sprintf("Holders · %s · page %d/%d", format.Count(&t.Count), s.page, max(t.PageCount(), 1))))

	regular := component.NewTable().SetZebra(true).SetColumns([]component.TableColumn{
		{Header: "#", Width: 5, Align: lipgloss.Right},
		{Header: "Address", Width: 14},
		{Header: "Balance", Width: 10, Align: lipgloss.Right},
		{Header: "Accounts", Width: 11},
		{Header: "Share", Width: 8, Align: lipgloss.Right},
		{Header: "Value", Width: 10, Align: lipgloss.Right},
	})
	for i, h := range t.Page(s.page) {
		address := format.Address(h.Owner)
		if h.Frozen {
			address += " ❄"
		}
		regular.AddRow([]string{
			fmt.Sprint(t.Rank(s.page, i)),
			address,
			format.Balance(h.BalanceFloat()),
			format.Accounts(h.Accounts),
			format.Percent(h.PercentOfSupply),
			format.HolderValue(h),
		}, nil)
	}
	out = append(out, regular.View())

	var notes []string
	if !t.Complete {
		notes = append(notes, style.WarningStyle.Render(
			fmt.Sprintf("Partial list: %d accounts over %d pages", t.AccountsSeen, t.PagesFetched)))
	}
	if !t.PriceKnown {
		notes = append(notes, style.NoDataStyle.Render("Price unavailable, values not shown"))
	}
	if len(notes) > 0 {
		out = append(out, strings.Join(notes, "  "))
	}
	return out
}
