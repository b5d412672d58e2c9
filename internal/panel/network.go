package panel

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/primal-host/zpanel/internal/request"
	"github.com/primal-host/zpanel/internal/table"
)

// Field is a text input.
type Field struct {
	Value    string
	Disabled bool
}

// NetIface is one network interface configuration row. Its checkbox turns
// the IP and gateway inputs on and off.
type NetIface struct {
	Name    string
	MAC     string
	Enabled bool
	IP      Field
	Gateway *Field
}

// NewNetIface creates a row with the checkbox off. withGateway adds a gateway
// input next to the IP input.
func NewNetIface(name, mac string, withGateway bool) *NetIface {
	n := &NetIface{
		Name: name,
		MAC:  mac,
		IP:   Field{Disabled: true},
	}
	if withGateway {
		n.Gateway = &Field{Disabled: true}
	}
	return n
}

// Toggle sets the checkbox. Off clears and disables the inputs; on enables
// them and keeps their values.
func (n *NetIface) Toggle(on bool) {
	n.Enabled = on
	n.IP.Disabled = !on
	if !on {
		n.IP.Value = ""
	}
	if n.Gateway != nil {
		n.Gateway.Disabled = !on
		if !on {
			n.Gateway.Value = ""
		}
	}
}

// SetIP fills the IP input. Disabled inputs ignore it.
func (n *NetIface) SetIP(v string) bool {
	if n.IP.Disabled {
		return false
	}
	n.IP.Value = v
	return true
}

// SetGateway fills the gateway input. Missing or disabled inputs ignore it.
func (n *NetIface) SetGateway(v string) bool {
	if n.Gateway == nil || n.Gateway.Disabled {
		return false
	}
	n.Gateway.Value = v
	return true
}

// Interfaces converts a /api/network/interfaces response into rows. The
// appliance answers with an object mapping interface name to MAC address;
// a list of objects with Name and Mac keys is accepted as well.
func Interfaces(resp *request.Response, withGateway bool) ([]*NetIface, error) {
	if !resp.OK() {
		return nil, errors.New(table.StatusError(resp.Status, resp.Body))
	}

	var raw struct {
		Success *bool           `json:"success"`
		Status  *bool           `json:"status"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &raw); err != nil {
		return nil, fmt.Errorf("decode interfaces: %w", err)
	}
	ok := raw.Success
	if ok == nil {
		ok = raw.Status
	}
	if ok == nil || !*ok {
		return nil, errors.New(table.RequestFailedText)
	}

	data := strings.TrimSpace(string(raw.Data))
	var ifaces []*NetIface
	switch {
	case data == "" || data == "null":
	case data[0] == '{':
		var byName table.Row
		if err := json.Unmarshal(raw.Data, &byName); err != nil {
			return nil, fmt.Errorf("decode interfaces: %w", err)
		}
		for _, c := range byName {
			ifaces = append(ifaces, NewNetIface(c.Key, c.Value, withGateway))
		}
	case data[0] == '[':
		var rows []table.Row
		if err := json.Unmarshal(raw.Data, &rows); err != nil {
			return nil, fmt.Errorf("decode interfaces: %w", err)
		}
		for _, r := range rows {
			name, _ := r.Get("Name")
			mac, _ := r.Get("Mac")
			if name == "" {
				continue
			}
			ifaces = append(ifaces, NewNetIface(name, mac, withGateway))
		}
	default:
		return nil, fmt.Errorf("decode interfaces: unexpected data")
	}
	return ifaces, nil
}
