package table

import (
	"fmt"

	"github.com/primal-host/zpanel/internal/request"
)

// Texts shown in place of table rows.
const (
	ConnectionErrorText = "Connection Error"
	RequestFailedText   = "Request Failed"
)

// Spec names one table: where its rows come from, its title and the
// container it is inserted into.
type Spec struct {
	Endpoint string `json:"endpoint"`
	Title    string `json:"title"`
	Target   string `json:"target"`
}

// Placeholder is the text of the body shown when an endpoint returns no rows.
func Placeholder(title string) string {
	return "No " + title + " founded"
}

// StatusError is the text of the error block for a non 2xx/3xx response.
func StatusError(status int, body string) string {
	return fmt.Sprintf("Status: %d Error: %s", status, body)
}

// Build turns the outcome of one request into a table. The result always has
// a header labeled title followed by exactly one of: a head and body with the
// rows, an empty placeholder body, or an error block.
//
// Column names come from the first row. Each body row lists its own cells in
// its own order, even when its keys differ from the first row's.
func Build(title string, resp *request.Response, err error) *Node {
	t := newNode("", "table")
	t.Append(newNode(title, "table", "header"))

	if err != nil || resp == nil {
		t.Append(errorBlock(ConnectionErrorText))
		return t
	}
	if !resp.OK() {
		t.Append(errorBlock(StatusError(resp.Status, resp.Body)))
		return t
	}

	parsed, perr := ParseResponse(resp.Body)
	if perr != nil {
		t.Append(errorBlock(StatusError(resp.Status, perr.Error())))
		return t
	}
	if !parsed.Success {
		t.Append(errorBlock(RequestFailedText))
		return t
	}
	if len(parsed.Data) == 0 {
		t.Append(newNode(Placeholder(title), "table", "body"))
		return t
	}

	head := newNode("", "table", "head")
	for _, key := range parsed.Data[0].Keys() {
		head.Append(newNode(key, "table", "head", "cell"))
	}

	body := newNode("", "table", "body")
	for _, row := range parsed.Data {
		r := newNode("", "table", "body", "row")
		for _, c := range row {
			r.Append(newNode(c.Value, "table", "body", "cell"))
		}
		body.Append(r)
	}

	t.Append(head)
	t.Append(body)
	return t
}

func errorBlock(text string) *Node {
	return newNode(text, "table", "error")
}

// Outcome classifies a built table.
type Outcome int

const (
	OutcomeRows Outcome = iota
	OutcomeEmpty
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRows:
		return "rows"
	case OutcomeEmpty:
		return "empty"
	case OutcomeError:
		return "error"
	}
	return "unknown"
}

// OutcomeOf reports which of the three bodies a table built by Build shows.
func OutcomeOf(t *Node) Outcome {
	if t.Child("table", "error") != nil {
		return OutcomeError
	}
	if t.Child("table", "head") != nil {
		return OutcomeRows
	}
	return OutcomeEmpty
}
