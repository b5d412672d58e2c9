package sysaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/primal-host/zpanel/internal/config"
	"github.com/primal-host/zpanel/internal/request"
)

// ErrInvalidPayload is returned when an action's data is not JSON.
var ErrInvalidPayload = errors.New("payload is not valid JSON")

// Action is a system command offered on the panel.
type Action struct {
	Command string `json:"command"`
	Label   string `json:"label"`
	Data    string `json:"data"`
}

// FromConfig builds the actions listed in a layout.
func FromConfig(cfgs []config.ActionConfig) []Action {
	actions := make([]Action, 0, len(cfgs))
	for _, c := range cfgs {
		actions = append(actions, Action{
			Command: CommandFromHref(c.Href),
			Label:   c.Label,
			Data:    c.Data,
		})
	}
	return actions
}

// CommandFromHref derives the command name from a link target: "#reboot"
// names the reboot command.
func CommandFromHref(href string) string {
	return strings.TrimPrefix(href, "#")
}

// Path returns the appliance endpoint for command.
func Path(command string) string {
	return "/api/system/" + url.PathEscape(command)
}

// Dispatcher posts system actions to the appliance.
type Dispatcher struct {
	client *request.Client
}

// NewDispatcher creates a Dispatcher issuing its requests through c.
func NewDispatcher(c *request.Client) *Dispatcher {
	return &Dispatcher{client: c}
}

// Dispatch parses data as JSON and posts it to the command's endpoint. An
// empty data posts an empty object. The outcome is only logged; the returned
// response and error are for callers that want them.
func (d *Dispatcher) Dispatch(ctx context.Context, command, data string) (*request.Response, error) {
	if command == "" {
		return nil, fmt.Errorf("command is required")
	}
	if strings.TrimSpace(data) == "" {
		data = "{}"
	}
	if !json.Valid([]byte(data)) {
		return nil, fmt.Errorf("action %s: %w", command, ErrInvalidPayload)
	}

	var out *request.Response
	var outErr error
	d.client.Do(ctx, http.MethodPost, Path(command), json.RawMessage(data),
		func(resp *request.Response) {
			slog.Info("system action", "command", command, "status", resp.Status, "response", resp.Body)
			out = resp
		},
		func(err error) {
			slog.Error("system action connection error", "command", command, "error", err)
			outErr = fmt.Errorf("action %s: %w", command, err)
		},
	)
	return out, outErr
}
