package server

import (
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

// templates adapts html/template to echo.Renderer.
type templates struct {
	t *template.Template
}

func (t *templates) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.t.ExecuteTemplate(w, name, data)
}

var pageTemplates = &templates{t: template.Must(template.New("dashboard").Parse(dashboardHTML))}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>zpanel</title>
<style>
  *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0f1117;
    color: #e4e4e7;
    min-height: 100vh;
  }
  header {
    padding: 1.5rem 2rem;
    background: #16181d;
    border-bottom: 1px solid #27272a;
    display: flex;
    align-items: center;
    justify-content: space-between;
  }
  header h1 { font-size: 1.25rem; font-weight: 600; }
  header .version { color: #71717a; font-size: 0.875rem; }
  .nav { display: flex; gap: 1rem; padding: 1rem 2rem; border-bottom: 1px solid #27272a; }
  .nav a { color: #a1a1aa; text-decoration: none; }
  .nav a.active { color: #e4e4e7; font-weight: 600; }
  .panels { padding: 2rem; max-width: 72rem; }
  .panel { display: none; }
  .panel.active { display: block; }
  .table { margin-bottom: 1.5rem; }
  div.table { background: #16181d; border: 1px solid #27272a; border-radius: 0.5rem; }
  .table .table { border: none; margin: 0; }
  .table.header { padding: 0.75rem 1rem; font-weight: 600; border-bottom: 1px solid #27272a; }
  .table.head, .table.row { display: flex; }
  .table.cell { flex: 1; padding: 0.5rem 1rem; }
  .table.head .cell { color: #71717a; font-size: 0.875rem; }
  .table.body { padding: 0.5rem 0; }
  .table.error { padding: 0.75rem 1rem; color: #f87171; }
  form { margin-bottom: 1rem; }
  label { margin-right: 1rem; }
  input, select, button { background: #16181d; color: #e4e4e7; border: 1px solid #27272a; padding: 0.25rem 0.5rem; }
  input:disabled { opacity: 0.4; }
  .notice { color: #f87171; margin-bottom: 1rem; }
  #install-output { background: #16181d; padding: 1rem; min-height: 8rem; white-space: pre-wrap; font-family: monospace; }
</style>
</head>
<body>
  <header>
    <h1>zpanel</h1>
    <span class="version">v{{.Version}}</span>
  </header>
  <div class="nav">
    {{range .Links}}<a href="/?panel={{.PanelID}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>
    {{end}}
  </div>
  <div class="panels">
  {{range .Panels}}
    <div id="{{.ID}}" class="panel{{if .Active}} active{{end}}">
      {{range .Tables}}{{.}}{{end}}
      {{if eq .ID "disks"}}{{template "install" $}}{{end}}
      {{if eq .ID "network"}}{{template "network" $}}{{end}}
      {{if eq .ID $.ActionPanel}}{{template "actions" $}}{{end}}
    </div>
  {{end}}
  </div>
</body>
</html>
{{define "install"}}
      {{if .DiskError}}<div class="notice">{{.DiskError}}</div>{{end}}
      <form id="install-form">
        <label>Disk <select name="disk">{{range .Disks}}<option value="{{.Value}}">{{.Text}}</option>{{end}}</select></label>
        <label>Pool <input name="poolname" value="zp_k8s"></label>
        <label><input type="checkbox" name="force"> Force</label>
        <button type="submit">Install</button>
      </form>
      <div id="install-output"></div>
      <script>
        document.getElementById('install-form').addEventListener('submit', function (e) {
          e.preventDefault();
          var f = e.target;
          var out = document.getElementById('install-output');
          var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
          var ws = new WebSocket(proto + location.host + '/install');
          ws.onopen = function () {
            ws.send(JSON.stringify({disk: f.disk.value, force: f.force.checked, poolname: f.poolname.value}));
          };
          ws.onmessage = function (m) { out.textContent += m.data + '\n'; };
          ws.onclose = function () { console.log('install stream closed'); };
          window.addEventListener('pagehide', function () { ws.close(); });
        });
      </script>
{{end}}
{{define "network"}}
      {{if .IfaceError}}<div class="notice">{{.IfaceError}}</div>{{end}}
      <form method="get" action="/">
        <input type="hidden" name="panel" value="network">
        {{range $i := .Ifaces}}
        <div class="nettype">
          <label><input type="checkbox" name="nettype" value="{{$i.Name}}"{{if $i.Enabled}} checked{{end}} onchange="this.form.submit()"> {{$i.Name}} ({{$i.MAC}})</label>
          <input name="ip_{{$i.Name}}" placeholder="ip/prefix" value="{{$i.IP.Value}}"{{if $i.IP.Disabled}} disabled{{end}}>
          {{with $i.Gateway}}<input name="gw_{{$i.Name}}" placeholder="gateway" value="{{.Value}}"{{if .Disabled}} disabled{{end}}>{{end}}
        </div>
        {{end}}
      </form>
{{end}}
{{define "actions"}}
      <ul class="sysaction">
      {{range .Actions}}
        <li><form method="post" action="/actions/{{.Command}}"><input type="hidden" name="data" value="{{.Data}}"><button type="submit">{{.Label}}</button></form></li>
      {{end}}
      </ul>
{{end}}
`
