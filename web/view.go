package web

import (
	"html/template"
	"net/url"

	"loan-dashboard/analytics"
	"loan-dashboard/dashboard"
	"loan-dashboard/form"
	"loan-dashboard/locale"
	"loan-dashboard/models"
	"loan-dashboard/results"
)

// Tabs of the dashboard page.
const (
	TabSingle    = "single"
	TabBatch     = "batch"
	TabAnalytics = "analytics"
)

func validTab(tab string) string {
	switch tab {
	case TabSingle, TabBatch, TabAnalytics:
		return tab
	}
	return TabSingle
}

type pageView struct {
	L           locale.Labels
	Lang        string
	Tab         string
	Notice      dashboard.Notice
	HasNotice   bool
	MaxUploadMB int
	Version     string

	Form formView

	LoadingPrediction bool
	LoadingAnalysis   bool
	FileName          string
	Table             *tableView

	Analytics *analytics.Dashboard
}

type option struct {
	Value, Label string
	Selected     bool
}

type formView struct {
	Values   map[string]string
	Errors   form.FieldErrors
	Defaults []option
	Homes    []option
}

type columnView struct {
	Key, Label string
	// Dir is the active direction for this column, "" when not sorted on.
	Dir  string
	Next string
}

type pageLink struct {
	Number   int
	Ellipsis bool
	Current  bool
}

type tableView struct {
	Columns        []columnView
	Rows           []results.Row
	Pagination     models.PaginationInfo
	ShowPagination bool
	Pages          []pageLink
	Prev, Next     int
	SortCol        string
	SortDir        string
}

func newFormView(loc locale.Config, values map[string]string, errs form.FieldErrors) formView {
	if values == nil {
		values = map[string]string{}
	}
	fv := formView{Values: values, Errors: errs}
	for _, v := range models.PreviousDefaultsValues {
		fv.Defaults = append(fv.Defaults, option{v, loc.DefaultsName(v), values[form.FieldPreviousDefaults] == v})
	}
	for _, v := range models.HomeOwnershipValues {
		fv.Homes = append(fv.Homes, option{v, loc.OwnershipName(v), values[form.FieldHomeOwnership] == v})
	}
	return fv
}

// newTableView renders the current page sorted as requested in q.
func newTableView(st dashboard.State, loc locale.Config, q url.Values) *tableView {
	if st.Prediction == nil {
		return nil
	}

	t := results.NewTable(st.Prediction, nil)
	restoreSort(t, q)
	activeCol, activeDir := t.Sort()

	tv := &tableView{
		Rows:           t.Format(loc),
		Pagination:     t.Pagination(),
		ShowPagination: t.ShowPagination(),
		Prev:           t.Prev(),
		Next:           t.Next(),
	}
	if activeCol != "" {
		tv.SortCol, tv.SortDir = activeCol, activeDir.String()
	}

	for _, c := range results.Columns {
		cv := columnView{Key: c, Label: loc.Labels.Columns[c], Next: t.NextDirection(c).String()}
		if c == activeCol {
			cv.Dir = activeDir.String()
		}
		tv.Columns = append(tv.Columns, cv)
	}

	current := tv.Pagination.Page
	for _, n := range t.PageNumbers() {
		if n == results.Ellipsis {
			tv.Pages = append(tv.Pages, pageLink{Ellipsis: true})
			continue
		}
		tv.Pages = append(tv.Pages, pageLink{Number: n, Current: n == current})
	}
	return tv
}

// restoreSort applies the sort carried in the page URL.
func restoreSort(t *results.Table, q url.Values) {
	dir := results.Ascending
	if q.Get("dir") == results.Descending.String() {
		dir = results.Descending
	}
	t.SetSort(q.Get("sort"), dir)
}

var funcs = template.FuncMap{
	"list": func(xs ...string) []string { return xs },
	"isError": func(n dashboard.Notice) bool {
		return n.Kind == dashboard.NoticeError
	},
	"label": func(m map[string]string, key string) string {
		if v, ok := m[key]; ok {
			return v
		}
		return key
	},
}
