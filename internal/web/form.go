package web

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/sweeney/pinwatch/internal/config"
)

func formBool(v url.Values, key string) bool {
	switch v.Get(key) {
	case "on", "true", "1":
		return true
	}
	return false
}

func formInt(v url.Values, key string, fallback int) int {
	n, err := strconv.Atoi(v.Get(key))
	if err != nil {
		return fallback
	}
	return n
}

func formInt64(v url.Values, key string, fallback int64) int64 {
	n, err := strconv.ParseInt(v.Get(key), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// parseSettings builds a new Settings value from the posted form, using
// the current settings for anything the form leaves blank. Checkboxes are
// absent when unchecked, so boolean fields always come from the form.
func parseSettings(v url.Values, base config.Settings) config.Settings {
	s := base

	s.Timezone = v.Get("timezone")
	s.NTPServer = v.Get("ntp_server")
	s.AdminPass = v.Get("admin_password")

	s.WiFi.SSID = v.Get("wifi_ssid")
	if p := v.Get("wifi_password"); p != "" {
		s.WiFi.Password = p
	}
	s.Cellular.Enabled = formBool(v, "cellular_enabled")
	s.Cellular.SerialPort = v.Get("cellular_port")

	for i := range s.Inputs {
		p := fmt.Sprintf("input%d_", i)
		in := &s.Inputs[i]
		in.Enabled = formBool(v, p+"enabled")
		in.Pin = formInt(v, p+"pin", in.Pin)
		in.Name = v.Get(p + "name")
		in.Mode = config.InputMode(v.Get(p + "mode"))
		in.OnMessage = v.Get(p + "on_message")
		in.OffMessage = v.Get(p + "off_message")
		in.CapturePhoto = formBool(v, p+"photo")
		in.IncludeGPS = formBool(v, p+"gps")
	}

	s.Pushbullet.Enabled = formBool(v, "pushbullet_enabled")
	s.Pushbullet.Mode = config.ConnectionMode(v.Get("pushbullet_mode"))
	s.Pushbullet.Token = v.Get("pushbullet_token")

	s.Email.Enabled = formBool(v, "email_enabled")
	s.Email.Mode = config.ConnectionMode(v.Get("email_mode"))
	s.Email.Host = v.Get("email_host")
	s.Email.Port = formInt(v, "email_port", s.Email.Port)
	s.Email.Username = v.Get("email_username")
	if p := v.Get("email_password"); p != "" {
		s.Email.Password = p
	}
	s.Email.From = v.Get("email_from")
	s.Email.To = v.Get("email_to")

	s.Telegram.Enabled = formBool(v, "telegram_enabled")
	s.Telegram.Mode = config.ConnectionMode(v.Get("telegram_mode"))
	s.Telegram.Token = v.Get("telegram_token")
	s.Telegram.ChatID = formInt64(v, "telegram_chat_id", s.Telegram.ChatID)

	s.SMS.Enabled = formBool(v, "sms_enabled")
	s.SMS.Mode = config.ConnectionMode(v.Get("sms_mode"))
	s.SMS.Number = v.Get("sms_number")

	s.MQTT.Enabled = formBool(v, "mqtt_enabled")
	s.MQTT.Mode = config.ConnectionMode(v.Get("mqtt_mode"))
	s.MQTT.Broker = v.Get("mqtt_broker")
	s.MQTT.Topic = v.Get("mqtt_topic")

	s.Sensor.AppendToAlerts = formBool(v, "sensor_append")
	s.Photo.SpoolDir = v.Get("photo_spool")

	return s
}

// validate rejects settings the daemon cannot run with. Anything not
// checked here is allowed through; a misconfigured channel is skipped at
// dispatch time, not here.
func validate(s *config.Settings) error {
	for i, in := range s.Inputs {
		if in.Pin < 0 {
			return fmt.Errorf("input %d: negative pin", i+1)
		}
		if in.Mode != config.ModeToggle && in.Mode != config.ModeMomentary {
			return fmt.Errorf("input %d: unknown mode %q", i+1, in.Mode)
		}
	}
	for name, mode := range map[string]config.ConnectionMode{
		"pushbullet": s.Pushbullet.Mode,
		"email":      s.Email.Mode,
		"telegram":   s.Telegram.Mode,
		"sms":        s.SMS.Mode,
		"mqtt":       s.MQTT.Mode,
	} {
		if !mode.Valid() {
			return fmt.Errorf("%s: unknown connection mode %q", name, mode)
		}
	}
	return nil
}
