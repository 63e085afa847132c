package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/beringar/fcu-observer/internal/status"
)

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
	"seconds": func(f *float64) string {
		if f == nil {
			return "–"
		}
		return fmt.Sprintf("%.1fs", *f)
	},
	"gap": func(f *float64) string {
		if f == nil {
			return "none"
		}
		return fmt.Sprintf("%.1f", *f)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="10">
<title>FCU Observer</title>
<style>
body { font-family: monospace; max-width: 640px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
h2 { font-size: 1.1em; margin-top: 1.5em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.heating { color: #c00; font-weight: bold; }
.cooling { color: #06c; font-weight: bold; }
.idle { color: #888; }
.new { color: green; }
.duplicate { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>FCU Observer</h1>
<table>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Topic</th><td>{{.Config.Topic}}</td></tr>
<tr><th>Focus unit</th><td>{{.Config.FocusUnit}}</td></tr>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}CONNECTED{{else}}DISCONNECTED{{end}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Messages</th><td>{{.Counts.Received}} received / {{.Counts.New}} new / {{.Counts.Duplicate}} duplicate / {{.Counts.Malformed}} malformed</td></tr>
</table>
{{if .Last}}
<h2>Last message</h2>
<table>
<tr><th>Message #</th><td>{{.Last.MessageCount}}</td></tr>
<tr><th>Received at</th><td>{{.Last.ReceivedAt.UTC.Format "2006-01-02T15:04:05Z07:00"}}</td></tr>
<tr><th>Data timestamp</th><td>{{.Last.DataTimestamp}}</td></tr>
<tr><th>Verdict</th><td class="{{if .Last.IsNew}}new{{else}}duplicate{{end}}">{{if .Last.IsNew}}NEW DATA{{else}}DUPLICATE{{end}}</td></tr>
<tr><th>Interval</th><td>{{seconds .Last.IntervalSeconds}}</td></tr>
<tr><th>Payload</th><td>{{.Last.PayloadBytes}} bytes, {{.Last.UnitCount}} units</td></tr>
</table>
{{if .Last.Derived}}
<h2>Focus unit</h2>
<table>
<tr><th>Running state</th><td class="{{if eq (printf "%s" .Last.Derived.Running) "HEATING"}}heating{{else if eq (printf "%s" .Last.Derived.Running) "COOLING"}}cooling{{else}}idle{{end}}">{{.Last.Derived.Running}}</td></tr>
<tr><th>Setpoint gap</th><td>{{gap .Last.Derived.SetpointGap}}</td></tr>
{{with .Last.Reading}}
{{with .SpaceTemp}}<tr><th>Space temp</th><td>{{.String}}</td></tr>{{end}}
{{with .EffectiveSetpoint}}<tr><th>Effective setpoint</th><td>{{.String}}</td></tr>{{end}}
{{with .UserSetpoint}}<tr><th>User setpoint</th><td>{{.String}}</td></tr>{{end}}
{{with .SupplyTemp}}<tr><th>Supply temp</th><td>{{.String}}</td></tr>{{end}}
{{with .HeatOutput}}<tr><th>Heat output</th><td>{{.String}}</td></tr>{{end}}
{{with .CoolOutput}}<tr><th>Cool output</th><td>{{.String}}</td></tr>{{end}}
{{with .FanSpeed}}<tr><th>Fan speed</th><td>{{.String}}</td></tr>{{end}}
{{with .Occupancy}}<tr><th>Occupancy</th><td>{{.String}}</td></tr>{{end}}
{{end}}
</table>
{{else}}
<p>Focus unit not present in last snapshot.</p>
{{end}}
{{else}}
<p>No messages received yet.</p>
{{end}}
<p><a href="/index.json">JSON</a> · <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	if err := indexTmpl.Execute(w, snap); err != nil {
		log.Printf("web: render status page: %v", err)
	}
}
