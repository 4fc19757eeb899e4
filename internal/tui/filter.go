package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/linkstat/internal/model"
)

// filterValues backs the filter form fields.
type filterValues struct {
	start string
	end   string
	links []string
	total bool
}

func validDay(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	_, err := model.ParseDay(s)
	return err
}

// newFilterForm builds the window and selection form, prefilled with the
// current view.
func newFilterForm(vals *filterValues, names []string) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Start").
			Description("First day, YYYY-MM-DD").
			Value(&vals.start).
			Validate(validDay),
		huh.NewInput().
			Title("End").
			Description("Last day, inclusive").
			Value(&vals.end).
			Validate(validDay),
	}
	if len(names) > 0 {
		fields = append(fields, huh.NewMultiSelect[string]().
			Title("Links").
			Description("Columns in the daily view; none selects all").
			Options(huh.NewOptions(names...)...).
			Value(&vals.links))
	}
	fields = append(fields, huh.NewConfirm().
		Title("Show Total column?").
		Affirmative("Yes").
		Negative("No").
		Value(&vals.total))

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(huh.ThemeBase16()).
		WithShowHelp(true)
}

func (a App) openFilter() (App, tea.Cmd) {
	a.filterVals = &filterValues{
		start: model.DayKey(a.window.Start),
		end:   model.DayKey(a.window.End),
		links: append([]string(nil), a.selection...),
		total: a.includeTotal,
	}
	names := make([]string, 0, len(a.table.Rows))
	for _, r := range a.table.Rows {
		names = append(names, r.Name)
	}
	a.filterForm = newFilterForm(a.filterVals, names)
	if a.width > 0 {
		a.filterForm = a.filterForm.WithWidth(a.width).WithHeight(a.height)
	}
	return a, a.filterForm.Init()
}

func (a App) updateFilterForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.filterForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.filterForm = f
	}

	switch a.filterForm.State {
	case huh.StateCompleted:
		a.applyFilter(*a.filterVals)
		a.filterForm = nil
		a.filterVals = nil
		return a, nil
	case huh.StateAborted:
		a.filterForm = nil
		a.filterVals = nil
		return a, nil
	}
	return a, cmd
}

// applyFilter installs the submitted window and selection. An inverted
// window is reported on the status bar and leaves the view unchanged.
func (a *App) applyFilter(v filterValues) {
	w, err := model.ParseWindow(v.start, v.end, 0, a.today)
	if err != nil {
		a.notice = err.Error()
		return
	}
	a.window = w
	a.selection = v.links
	a.includeTotal = v.total
	a.notice = ""
	a.recompute()
}
