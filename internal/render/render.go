// Package render turns wallet results into HTML. Mapping functions are pure; the
// Renderer only executes embedded templates.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageHome         = "home"
	pageTransactions = "transactions"
)

// Fragment names usable with Renderer.Fragment.
const (
	FragmentBalance    = "balance"
	FragmentHistory    = "history"
	FragmentSubmission = "submission"
)

// HomePage is the landing page model.
type HomePage struct {
	AppName string
}

// TransactionsPage is the transactions page model. Submission is nil on a plain GET.
type TransactionsPage struct {
	AppName    string
	SenderID   string
	Balance    BalanceView
	History    HistoryView
	Submission *SubmissionView
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	pages := make(map[string]*template.Template, 2)
	for _, name := range []string{pageHome, pageTransactions} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/partials.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s templates: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Home writes the landing page.
func (r *Renderer) Home(w io.Writer, page HomePage) error {
	return r.execute(w, pageHome, "layout", page)
}

// Transactions writes the transactions page.
func (r *Renderer) Transactions(w io.Writer, page TransactionsPage) error {
	return r.execute(w, pageTransactions, "layout", page)
}

// Fragment writes a single partial (balance, history or submission) with data.
func (r *Renderer) Fragment(w io.Writer, name string, data any) error {
	switch name {
	case FragmentBalance, FragmentHistory, FragmentSubmission:
	default:
		return fmt.Errorf("unknown fragment %q", name)
	}
	return r.execute(w, pageTransactions, name, data)
}

func (r *Renderer) execute(w io.Writer, page, tmpl string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("page %q not loaded", page)
	}
	if err := t.ExecuteTemplate(w, tmpl, data); err != nil {
		return fmt.Errorf("render %s/%s: %w", page, tmpl, err)
	}
	return nil
}
