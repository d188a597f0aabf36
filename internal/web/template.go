package web

import (
	"html/template"
	"io"

	"github.com/sweeney/pinwatch/internal/config"
)

var settingsTmpl = template.Must(template.New("settings").Parse(settingsHTML))

const settingsHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Pinwatch</title>
<style>
body { font-family: monospace; max-width: 700px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
h2 { font-size: 1.1em; margin-top: 1.5em; }
fieldset { border: 1px solid #ccc; margin: 1em 0; }
label { display: block; margin: 4px 0; }
input[type=text], input[type=password], input[type=number], select { width: 55%; }
.saved { color: green; font-weight: bold; }
.test { display: inline; }
</style>
</head>
<body>
<h1>Pinwatch</h1>
{{if .Saved}}<p class="saved">Settings saved.</p>{{end}}
<p><a href="/status.json">status</a> | <a href="/log.json">log</a></p>

<form method="post" action="/save">

<h2>Network</h2>
<fieldset>
<label>WiFi SSID <input type="text" name="wifi_ssid" value="{{.S.WiFi.SSID}}"></label>
<label>WiFi password <input type="password" name="wifi_password" placeholder="(unchanged)"></label>
<label><input type="checkbox" name="cellular_enabled" {{if .S.Cellular.Enabled}}checked{{end}}> Cellular modem</label>
<label>Modem port <input type="text" name="cellular_port" value="{{.S.Cellular.SerialPort}}"></label>
</fieldset>

<h2>Inputs</h2>
{{range $i, $in := .S.Inputs}}
<fieldset>
<legend>Input {{$i}}</legend>
<label><input type="checkbox" name="input{{$i}}_enabled" {{if $in.Enabled}}checked{{end}}> Enabled</label>
<label>Name <input type="text" name="input{{$i}}_name" value="{{$in.Name}}"></label>
<label>Pin <input type="number" name="input{{$i}}_pin" value="{{$in.Pin}}"></label>
<label>Mode <select name="input{{$i}}_mode">
<option value="toggle" {{if eq $in.Mode "toggle"}}selected{{end}}>toggle</option>
<option value="momentary" {{if eq $in.Mode "momentary"}}selected{{end}}>momentary</option>
</select></label>
<label>On message <input type="text" name="input{{$i}}_on_message" value="{{$in.OnMessage}}"></label>
<label>Off message <input type="text" name="input{{$i}}_off_message" value="{{$in.OffMessage}}"></label>
<label><input type="checkbox" name="input{{$i}}_photo" {{if $in.CapturePhoto}}checked{{end}}> Capture photo</label>
<label><input type="checkbox" name="input{{$i}}_gps" {{if $in.IncludeGPS}}checked{{end}}> Include GPS fix</label>
</fieldset>
{{end}}

<h2>Channels</h2>
<fieldset>
<legend>Pushbullet</legend>
<label><input type="checkbox" name="pushbullet_enabled" {{if .S.Pushbullet.Enabled}}checked{{end}}> Enabled</label>
<label>Link <select name="pushbullet_mode">
<option value="wifi" {{if eq .S.Pushbullet.Mode "wifi"}}selected{{end}}>wifi</option>
<option value="cellular" {{if eq .S.Pushbullet.Mode "cellular"}}selected{{end}}>cellular</option>
<option value="wifi+cellular" {{if eq .S.Pushbullet.Mode "wifi+cellular"}}selected{{end}}>wifi+cellular</option>
</select></label>
<label>Token <input type="text" name="pushbullet_token" value="{{.S.Pushbullet.Token}}"></label>
<button class="test" formaction="/test/pushbullet" formmethod="post">test</button>
</fieldset>

<fieldset>
<legend>Email</legend>
<label><input type="checkbox" name="email_enabled" {{if .S.Email.Enabled}}checked{{end}}> Enabled</label>
<label>Link <select name="email_mode">
<option value="wifi" {{if eq .S.Email.Mode "wifi"}}selected{{end}}>wifi</option>
<option value="cellular" {{if eq .S.Email.Mode "cellular"}}selected{{end}}>cellular</option>
<option value="wifi+cellular" {{if eq .S.Email.Mode "wifi+cellular"}}selected{{end}}>wifi+cellular</option>
</select></label>
<label>SMTP host <input type="text" name="email_host" value="{{.S.Email.Host}}"></label>
<label>SMTP port <input type="number" name="email_port" value="{{.S.Email.Port}}"></label>
<label>Username <input type="text" name="email_username" value="{{.S.Email.Username}}"></label>
<label>Password <input type="password" name="email_password" placeholder="(unchanged)"></label>
<label>From <input type="text" name="email_from" value="{{.S.Email.From}}"></label>
<label>To <input type="text" name="email_to" value="{{.S.Email.To}}"></label>
<button class="test" formaction="/test/email" formmethod="post">test</button>
</fieldset>

<fieldset>
<legend>Telegram</legend>
<label><input type="checkbox" name="telegram_enabled" {{if .S.Telegram.Enabled}}checked{{end}}> Enabled</label>
<label>Link <select name="telegram_mode">
<option value="wifi" {{if eq .S.Telegram.Mode "wifi"}}selected{{end}}>wifi</option>
<option value="cellular" {{if eq .S.Telegram.Mode "cellular"}}selected{{end}}>cellular</option>
<option value="wifi+cellular" {{if eq .S.Telegram.Mode "wifi+cellular"}}selected{{end}}>wifi+cellular</option>
</select></label>
<label>Bot token <input type="text" name="telegram_token" value="{{.S.Telegram.Token}}"></label>
<label>Chat ID <input type="number" name="telegram_chat_id" value="{{.S.Telegram.ChatID}}"></label>
<button class="test" formaction="/test/telegram" formmethod="post">test</button>
</fieldset>

<fieldset>
<legend>SMS</legend>
<label><input type="checkbox" name="sms_enabled" {{if .S.SMS.Enabled}}checked{{end}}> Enabled</label>
<label>Link <select name="sms_mode">
<option value="wifi" {{if eq .S.SMS.Mode "wifi"}}selected{{end}}>wifi</option>
<option value="cellular" {{if eq .S.SMS.Mode "cellular"}}selected{{end}}>cellular</option>
<option value="wifi+cellular" {{if eq .S.SMS.Mode "wifi+cellular"}}selected{{end}}>wifi+cellular</option>
</select></label>
<label>Number <input type="text" name="sms_number" value="{{.S.SMS.Number}}"></label>
<button class="test" formaction="/test/sms" formmethod="post">test</button>
</fieldset>

<fieldset>
<legend>MQTT</legend>
<label><input type="checkbox" name="mqtt_enabled" {{if .S.MQTT.Enabled}}checked{{end}}> Enabled</label>
<label>Link <select name="mqtt_mode">
<option value="wifi" {{if eq .S.MQTT.Mode "wifi"}}selected{{end}}>wifi</option>
<option value="cellular" {{if eq .S.MQTT.Mode "cellular"}}selected{{end}}>cellular</option>
<option value="wifi+cellular" {{if eq .S.MQTT.Mode "wifi+cellular"}}selected{{end}}>wifi+cellular</option>
</select></label>
<label>Broker <input type="text" name="mqtt_broker" value="{{.S.MQTT.Broker}}"></label>
<label>Topic <input type="text" name="mqtt_topic" value="{{.S.MQTT.Topic}}"></label>
<button class="test" formaction="/test/mqtt" formmethod="post">test</button>
</fieldset>

<h2>System</h2>
<fieldset>
<label>Timezone <input type="text" name="timezone" value="{{.S.Timezone}}"></label>
<label>NTP server <input type="text" name="ntp_server" value="{{.S.NTPServer}}"></label>
<label>Admin password <input type="text" name="admin_password" value="{{.S.AdminPass}}"></label>
<label><input type="checkbox" name="sensor_append" {{if .S.Sensor.AppendToAlerts}}checked{{end}}> Append sensor reading to alerts</label>
<label>Photo spool dir <input type="text" name="photo_spool" value="{{.S.Photo.SpoolDir}}"></label>
</fieldset>

<p><button type="submit">Save</button></p>
</form>
</body>
</html>
`

func renderSettings(w io.Writer, s config.Settings, saved bool) {
	settingsTmpl.Execute(w, struct {
		S     config.Settings
		Saved bool
	}{S: s, Saved: saved})
}
