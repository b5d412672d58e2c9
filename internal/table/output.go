package table

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

var nodeTemplate = template.Must(template.New("table").Parse(
	`{{define "node"}}<div class="{{.Class}}">{{.Text}}{{range .Children}}{{template "node" .}}{{end}}</div>{{end}}`,
))

// HTML renders n as nested divs. Text is escaped.
func HTML(n *Node) (template.HTML, error) {
	var sb strings.Builder
	if err := WriteHTML(&sb, n); err != nil {
		return "", err
	}
	return template.HTML(sb.String()), nil
}

// WriteHTML writes n as nested divs to w.
func WriteHTML(w io.Writer, n *Node) error {
	if err := nodeTemplate.ExecuteTemplate(w, "node", n); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

// WriteText writes a table built by Build as plain text: the title, then
// either a grid of the rows or the placeholder or error line.
func WriteText(w io.Writer, t *Node) error {
	title := ""
	if h := t.Child("table", "header"); h != nil {
		title = h.Text
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	switch OutcomeOf(t) {
	case OutcomeError:
		_, err := fmt.Fprintln(w, t.Child("table", "error").Text)
		return err
	case OutcomeEmpty:
		text := ""
		if b := t.Child("table", "body"); b != nil {
			text = b.Text
		}
		_, err := fmt.Fprintln(w, text)
		return err
	}

	var header []string
	for _, c := range t.Child("table", "head").Children {
		header = append(header, c.Text)
	}
	var rows [][]string
	width := len(header)
	for _, r := range t.Child("table", "body").Children {
		var row []string
		for _, c := range r.Children {
			row = append(row, c.Text)
		}
		if len(row) > width {
			width = len(row)
		}
		rows = append(rows, row)
	}

	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeader(pad(header, width))
	for _, row := range rows {
		tw.Append(pad(row, width))
	}
	tw.Render()
	return nil
}

func pad(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}
