package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/tmcnab/schoolbell/internal/schedule"
	"github.com/tmcnab/schoolbell/internal/status"
)

type pageData struct {
	Status   status.Snapshot
	Schedule schedule.Snapshot
}

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"hhmm": func(hour, minute int) string {
		return fmt.Sprintf("%02d:%02d", hour, minute)
	},
}).Parse(indexHTML))

func renderHTML(w io.Writer, snap status.Snapshot, sched schedule.Snapshot) {
	if err := indexTmpl.Execute(w, pageData{Status: snap, Schedule: sched}); err != nil {
		log.Printf("render status page: %v", err)
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>School Bell</title>
<style>
body { font-family: monospace; max-width: 700px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.fired { color: #888; text-decoration: line-through; }
.active { font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
.emergency { background: #c00; color: white; padding: 0.5em 1em; font-weight: bold; }
button { font-family: monospace; }
</style>
</head>
<body>
<h1>School Bell</h1>

{{if .Status.EmergencyActive}}<p class="emergency">EMERGENCY ALARM ACTIVE (phase {{.Status.EmergencyPhase}})</p>{{end}}

<h2>State</h2>
<table>
<tr><th>Clock</th><td>{{if .Status.ClockOK}}{{.Status.Clock.HHMMSS}} ({{.Status.Clock.Date}}){{else}}UNAVAILABLE{{end}}</td></tr>
<tr><th>Bell Relay</th><td class="{{if .Status.RelayOn}}on{{else}}off{{end}}">{{if .Status.RelayOn}}ON{{else}}OFF{{end}}</td></tr>
<tr><th>Active Preset</th><td>{{if .Status.ActivePreset}}{{.Status.ActivePreset}} ({{.Status.BellCount}} bells){{else}}none{{end}}</td></tr>
<tr><th>Next Bell</th><td>{{if .Status.Next.OK}}{{hhmm .Status.Next.Hour .Status.Next.Minute}}{{else}}none{{end}}</td></tr>
<tr><th>Ring Duration</th><td>{{.Status.BellDurationMs}} ms</td></tr>
<tr><th>Display Mode</th><td>{{if .Status.DisplayMode}}schedule{{else}}clock{{end}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Status.Uptime}}</td></tr>
</table>
<p><button onclick="api('POST','/api/ring')">Ring now</button></p>

<h2>Schedule</h2>
{{range $i, $p := .Schedule.Presets}}
<h3 class="{{if eq $i $.Schedule.Active}}active{{end}}">{{$p.Name}}{{if eq $i $.Schedule.Active}} (active){{end}}</h3>
<table>
{{range $j, $b := $p.Bells}}
<tr><td class="{{if $b.Triggered}}fired{{end}}">{{hhmm $b.Hour $b.Minute}}</td>
<td>{{if $b.Triggered}}rung today{{else}}pending{{end}}</td>
<td><button onclick="api('DELETE','/api/presets/{{$i}}/bells/{{$j}}')">delete</button></td></tr>
{{end}}
<tr><td colspan="3">
<input id="bell-{{$i}}" placeholder="HH:MM" size="5">
<button onclick="addBell({{$i}})">add bell</button>
<button onclick="api('PUT','/api/active',{index:{{$i}}})">set active</button>
<button onclick="api('DELETE','/api/presets/{{$i}}')">delete preset</button>
</td></tr>
</table>
{{else}}
<p>No presets configured.</p>
{{end}}
<p>
<input id="preset-name" placeholder="name">
<button onclick="addPreset()">add preset</button>
<input id="duration" placeholder="ms" size="6">
<button onclick="setDuration()">set duration</button>
</p>

<h2>Ring Counts</h2>
<table>
<tr><th>Scheduled</th><td>{{.Status.Counts.Scheduled}}</td></tr>
<tr><th>Manual</th><td>{{.Status.Counts.Manual}}</td></tr>
<tr><th>Emergency Sessions</th><td>{{.Status.Counts.Emergency}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .Status.MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .Status.MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Status.Config.Broker}}</td></tr>
</table>

<script>
function api(method, path, body) {
  fetch(path, {
    method: method,
    headers: {'Content-Type': 'application/json'},
    body: body === undefined ? undefined : JSON.stringify(body)
  }).then(function(r) {
    if (!r.ok) { return r.text().then(function(t) { alert(t); }); }
    location.reload();
  });
}
function addPreset() {
  api('POST', '/api/presets', {name: document.getElementById('preset-name').value});
}
function addBell(i) {
  var v = document.getElementById('bell-' + i).value.split(':');
  api('POST', '/api/presets/' + i + '/bells', {hour: parseInt(v[0], 10), minute: parseInt(v[1], 10)});
}
function setDuration() {
  api('PUT', '/api/duration', {ms: parseInt(document.getElementById('duration').value, 10)});
}
</script>
</body>
</html>
`
