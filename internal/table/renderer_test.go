package table

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/primal-host/zpanel/internal/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applianceStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/disks", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[{"Path":"/dev/sda","Size":"20G"},{"Path":"/dev/sdb","Size":"40G"}]}`))
	})
	mux.HandleFunc("/api/zpools", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[]}`))
	})
	mux.HandleFunc("/api/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "exit status 1", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRenderer_Render(t *testing.T) {
	srv := applianceStub(t)
	r := NewRenderer(request.New(srv.URL))

	n := r.Render(context.Background(), Spec{Endpoint: "/api/disks", Title: "Block Devices", Target: "#summary"})
	assert.Equal(t, OutcomeRows, OutcomeOf(n))
	assert.Len(t, n.Find("table", "body", "row"), 2)

	n = r.Render(context.Background(), Spec{Endpoint: "/api/zpools", Title: "Zpools"})
	assert.Equal(t, "No Zpools founded", n.Child("table", "body").Text)

	n = r.Render(context.Background(), Spec{Endpoint: "/api/broken", Title: "Broken"})
	assert.Equal(t, "Status: 500 Error: exit status 1\n", n.Child("table", "error").Text)
}

func TestRenderer_RenderConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	n := NewRenderer(request.New(url)).Render(context.Background(), Spec{Endpoint: "/api/disks", Title: "Block Devices"})
	assert.Equal(t, "Connection Error", n.Child("table", "error").Text)
	assert.Equal(t, "Block Devices", n.Child("table", "header").Text)
}

func TestRenderer_RenderAll(t *testing.T) {
	srv := applianceStub(t)
	r := NewRenderer(request.New(srv.URL))
	doc := NewDocument("#summary", "#disks")

	err := r.RenderAll(context.Background(), doc, []Spec{
		{Endpoint: "/api/disks", Title: "Block Devices", Target: "#summary"},
		{Endpoint: "/api/zpools", Title: "Zpools", Target: "#summary"},
		{Endpoint: "/api/broken", Title: "Broken", Target: "#disks"},
	})
	require.NoError(t, err)

	summary := doc.Container("#summary")
	require.Len(t, summary.Children, 2)
	titles := map[string]Outcome{}
	for _, c := range summary.Children {
		titles[c.Child("table", "header").Text] = OutcomeOf(c)
	}
	assert.Equal(t, map[string]Outcome{"Block Devices": OutcomeRows, "Zpools": OutcomeEmpty}, titles)

	disks := doc.Container("#disks")
	require.Len(t, disks.Children, 1)
	assert.Equal(t, OutcomeError, OutcomeOf(disks.Children[0]))
}

func TestRenderer_RenderAllUnknownTarget(t *testing.T) {
	srv := applianceStub(t)
	doc := NewDocument("#summary")

	err := NewRenderer(request.New(srv.URL)).RenderAll(context.Background(), doc, []Spec{
		{Endpoint: "/api/disks", Title: "Block Devices", Target: "#missing"},
		{Endpoint: "/api/zpools", Title: "Zpools", Target: "#summary"},
	})
	assert.Error(t, err)
	assert.Len(t, doc.Container("#summary").Children, 1)
}

func TestDocument(t *testing.T) {
	doc := NewDocument("#a", "#b", "#a")
	assert.Equal(t, []string{"#a", "#b"}, doc.Selectors())
	assert.Nil(t, doc.Container("#c"))
	assert.Error(t, doc.Append("#c", &Node{}))
	require.NoError(t, doc.Append("#b", &Node{Text: "x"}))
	assert.Equal(t, "x", doc.Container("#b").Children[0].Text)
}

func TestWriteHTML(t *testing.T) {
	n := Build("Block <Devices>", ok(`{"success":true,"data":[{"Path":"/dev/sda"}]}`), nil)

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, n))
	assert.Equal(t,
		`<div class="table"><div class="table header">Block &lt;Devices&gt;</div>`+
			`<div class="table head"><div class="table head cell">Path</div></div>`+
			`<div class="table body"><div class="table body row"><div class="table body cell">/dev/sda</div></div></div></div>`,
		buf.String())

	h, err := HTML(n)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(h))
}

func TestWriteText(t *testing.T) {
	type test struct {
		node *Node
		want []string
	}

	tests := map[string]test{
		"rows": {
			node: Build("Zpools", ok(`{"success":true,"data":[{"Name":"zp0","Health":"ONLINE"},{"Name":"zp1","Health":"DEGRADED","Size":"1T"}]}`), nil),
			want: []string{"Zpools", "Name", "Health", "zp0", "ONLINE", "DEGRADED", "1T"},
		},
		"empty": {
			node: Build("Zpools", ok(`{"success":true,"data":[]}`), nil),
			want: []string{"Zpools\nNo Zpools founded\n"},
		},
		"error": {
			node: Build("Zpools", nil, assert.AnError),
			want: []string{"Zpools\nConnection Error\n"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteText(&buf, tt.node))
			for _, w := range tt.want {
				assert.True(t, strings.Contains(buf.String(), w), "missing %q in %q", w, buf.String())
			}
		})
	}
}
