package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/primal-host/zpanel/internal/install"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAppliance(t *testing.T) *httptest.Server {
	t.Helper()
	up := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/disks", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[{"Name":"sda","Path":"/dev/sda"}]}`))
	})
	mux.HandleFunc("/api/zpools", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[]}`))
	})
	mux.HandleFunc("/api/system/install", func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req install.Request
		json.Unmarshal(data, &req)
		conn.WriteMessage(websocket.TextMessage, []byte("partitioning "+req.Disk))
		conn.WriteMessage(websocket.TextMessage, []byte("done"))
	})
	mux.HandleFunc("/api/system/reboot", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		w.Write([]byte(`{"status":true,"data":` + string(b) + `}`))
	})
	mux.HandleFunc("/api/system/format", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusForbidden)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTablesCmd(t *testing.T) {
	a := newAppliance(t)

	out, err := run(t, "tables", "--appliance", a.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Block Devices\n")
	assert.Contains(t, out, "/dev/sda")
	assert.Contains(t, out, "Zpools\nNo Zpools founded\n")

	_, err = run(t, "tables", "--appliance", a.URL, "--target", "#nope")
	assert.EqualError(t, err, `no tables target "#nope"`)
}

func TestActionCmd(t *testing.T) {
	a := newAppliance(t)

	tests := map[string]struct {
		args    []string
		out     string
		wantErr string
	}{
		"default payload": {
			args: []string{"reboot"},
			out:  "200 {\"status\":true,\"data\":{}}\n",
		},
		"explicit payload": {
			args: []string{"reboot", `{"delay":5}`},
			out:  "200 {\"status\":true,\"data\":{\"delay\":5}}\n",
		},
		"invalid payload": {
			args:    []string{"reboot", "{"},
			wantErr: "action reboot: payload is not valid JSON",
		},
		"rejected": {
			args:    []string{"format"},
			out:     "403 no\n\n",
			wantErr: "action format: appliance answered 403",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			args := append([]string{"action", "--appliance", a.URL}, test.args...)
			out, err := run(t, args...)
			if test.wantErr != "" {
				assert.EqualError(t, err, test.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, test.out, out)
		})
	}
}

func TestInstallCmd(t *testing.T) {
	a := newAppliance(t)

	out, err := run(t, "install", "--appliance", a.URL, "--disk", "/dev/sdb", "--force")
	require.NoError(t, err)
	assert.Equal(t, "partitioning /dev/sdb\ndone\n", out)

	_, err = run(t, "install", "--appliance", a.URL)
	assert.EqualError(t, err, "disk is required")

	_, err = run(t, "install", "--appliance", "ftp://"+strings.TrimPrefix(a.URL, "http://"), "--disk", "/dev/sdb")
	assert.EqualError(t, err, `unsupported scheme "ftp"`)
}
