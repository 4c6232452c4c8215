package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/signlight/internal/status"
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
	"clock": func(t time.Time) string {
		if t.IsZero() {
			return "—"
		}
		return t.Format("15:04")
	},
	"lampClass": func(s string) string {
		switch s {
		case "ON":
			return "on"
		case "OFF":
			return "off"
		case "FADING":
			return "fading"
		default:
			return "unknown"
		}
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Sign Light</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.fading { color: #b80; font-weight: bold; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Sign Light{{if .Config.WSBroker}}<span id="live-dot" class="live-dot pending" title="connecting"></span>{{end}}</h1>

<h2>Lamp</h2>
<table>
<tr><th>State</th><td id="lamp-state" class="{{lampClass .Lamp}}">{{.Lamp}}</td></tr>
<tr><th>Duty</th><td id="lamp-duty">{{.Duty}} / {{.TargetDuty}} (max {{.Config.OnDuty}})</td></tr>
<tr><th>Mode</th><td id="lamp-mode">{{.Mode}}</td></tr>
<tr><th>Dark outside</th><td>{{if .Dark}}yes{{else}}no{{end}}</td></tr>
<tr><th>Clock synced</th><td>{{if .Synced}}yes{{else}}no{{end}}</td></tr>
</table>

<h2>Schedule</h2>
<table>
<tr><th>Sunrise</th><td>{{clock .Sunrise}}</td></tr>
<tr><th>Sunset</th><td>{{clock .Sunset}}</td></tr>
<tr><th>Position</th><td>{{printf "%.4f, %.4f" .Config.Latitude .Config.Longitude}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} — {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Dark</th><td>{{.Counts.Dark}}</td></tr>
<tr><th>Daylight</th><td>{{.Counts.Daylight}}</td></tr>
<tr><th>Override on</th><td>{{.Counts.OverrideOn}}</td></tr>
<tr><th>Override off</th><td>{{.Counts.OverrideOff}}</td></tr>
<tr><th>Override cleared</th><td>{{.Counts.OverrideClear}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Evaluation</th><td>{{.Config.EvalMs}}ms</td></tr>
<tr><th>Fade step</th><td>{{.Config.FadeStepMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
{{if .Config.WSBroker}}
<script src="/mqtt.min.js"></script>
<script>
(function() {
  var broker = "{{.Config.WSBroker}}";
  var topic = "home/signlight/events";
  var dot = document.getElementById("live-dot");
  var lampEl = document.getElementById("lamp-state");
  var modeEl = document.getElementById("lamp-mode");

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  var client = mqtt.connect(broker, { reconnectPeriod: 5000 });

  client.on("connect", function() {
    setDot("ok", "live");
    client.subscribe(topic);
  });

  client.on("reconnect", function() {
    setDot("pending", "reconnecting");
  });

  client.on("offline", function() {
    setDot("err", "offline");
  });

  client.on("error", function() {
    setDot("err", "error");
  });

  client.on("message", function(t, payload) {
    try {
      var msg = JSON.parse(payload.toString());
      if (msg.lamp) {
        var on = msg.lamp.target_duty > 0;
        lampEl.textContent = on ? "ON" : "OFF";
        lampEl.className = on ? "on" : "off";
        modeEl.textContent = msg.lamp.mode;
      }
    } catch (e) {}
  });
})();
</script>
{{end}}
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() and Lamp() methods but the template needs fields.
	data := struct {
		status.Snapshot
		Uptime time.Duration
		Lamp   string
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Lamp:     snap.Lamp(),
	}
	indexTmpl.Execute(w, data)
}
