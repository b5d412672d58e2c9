package panel

import (
	"errors"

	"github.com/primal-host/zpanel/internal/request"
	"github.com/primal-host/zpanel/internal/table"
)

// Option is one entry of a select input.
type Option struct {
	Value string
	Text  string
}

// DiskOptions converts a /api/disks response into the install form's disk
// picker, one option per device path.
func DiskOptions(resp *request.Response) ([]Option, error) {
	if !resp.OK() {
		return nil, errors.New(table.StatusError(resp.Status, resp.Body))
	}
	parsed, err := table.ParseResponse(resp.Body)
	if err != nil {
		return nil, err
	}
	if !parsed.Success {
		return nil, errors.New(table.RequestFailedText)
	}
	options := make([]Option, 0, len(parsed.Data))
	for _, row := range parsed.Data {
		path, ok := row.Get("Path")
		if !ok || path == "" {
			continue
		}
		options = append(options, Option{Value: path, Text: path})
	}
	return options, nil
}
