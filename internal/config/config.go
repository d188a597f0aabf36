// Package config holds the device settings: network credentials,
// notification channel configuration and the four input slots. A single
// Settings value is owned by the main loop and passed by reference into
// the components that read it; web handlers never mutate it directly
// (changes are applied through the deferred task queue).
package config

// ConnectionMode selects which network link a notification channel may
// use.
type ConnectionMode string

const (
	WiFiOnly               ConnectionMode = "wifi"
	CellularOnly           ConnectionMode = "cellular"
	WiFiWithCellularBackup ConnectionMode = "wifi+cellular"
)

// Valid reports whether m is a known connection mode.
func (m ConnectionMode) Valid() bool {
	switch m {
	case WiFiOnly, CellularOnly, WiFiWithCellularBackup:
		return true
	}
	return false
}

// InputMode selects which edges of an input produce notifications.
type InputMode string

const (
	// ModeToggle notifies on both activation and deactivation edges.
	ModeToggle InputMode = "toggle"
	// ModeMomentary notifies only on the activation edge.
	ModeMomentary InputMode = "momentary"
)

// SlotCount is the number of physical input slots. The hardware has four
// GPIOs wired for inputs; slots are reused, never allocated.
const SlotCount = 4

// InputConfig configures one input slot.
type InputConfig struct {
	Enabled      bool      `yaml:"enabled"`
	Pin          int       `yaml:"pin"`
	Name         string    `yaml:"name"`
	Mode         InputMode `yaml:"mode"`
	OnMessage    string    `yaml:"on_message"`
	OffMessage   string    `yaml:"off_message"`
	CapturePhoto bool      `yaml:"capture_photo"`
	IncludeGPS   bool      `yaml:"include_gps"`
}

// PushbulletConfig configures the push notification channel.
type PushbulletConfig struct {
	Enabled bool           `yaml:"enabled"`
	Mode    ConnectionMode `yaml:"mode"`
	Token   string         `yaml:"token"`
}

// EmailConfig configures the SMTP channel.
type EmailConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Mode     ConnectionMode `yaml:"mode"`
	Host     string         `yaml:"host"`
	Port     int            `yaml:"port"`
	Username string         `yaml:"username"`
	Password string         `yaml:"password"`
	From     string         `yaml:"from"`
	To       string         `yaml:"to"`
}

// TelegramConfig configures the chat bot channel.
type TelegramConfig struct {
	Enabled bool           `yaml:"enabled"`
	Mode    ConnectionMode `yaml:"mode"`
	Token   string         `yaml:"token"`
	ChatID  int64          `yaml:"chat_id"`
}

// SMSConfig configures the SMS channel. SMS always goes out over the
// cellular modem.
type SMSConfig struct {
	Enabled bool           `yaml:"enabled"`
	Mode    ConnectionMode `yaml:"mode"`
	Number  string         `yaml:"number"`
}

// MQTTConfig configures the MQTT alert channel.
type MQTTConfig struct {
	Enabled bool           `yaml:"enabled"`
	Mode    ConnectionMode `yaml:"mode"`
	Broker  string         `yaml:"broker"`
	Topic   string         `yaml:"topic"`
}

// WiFiConfig holds station credentials. An empty SSID means the device
// boots straight into setup mode.
type WiFiConfig struct {
	SSID     string `yaml:"ssid"`
	Password string `yaml:"password"`
}

// CellularConfig holds modem settings.
type CellularConfig struct {
	Enabled    bool   `yaml:"enabled"`
	SerialPort string `yaml:"serial_port"`
}

// Settings is the full persisted device configuration.
type Settings struct {
	Board      string                 `yaml:"board"`
	Timezone   string                 `yaml:"timezone"`
	NTPServer  string                 `yaml:"ntp_server"`
	AdminPass  string                 `yaml:"admin_password"`
	HTTPAddr   string                 `yaml:"http_addr"`
	WiFi       WiFiConfig             `yaml:"wifi"`
	Cellular   CellularConfig         `yaml:"cellular"`
	Inputs     [SlotCount]InputConfig `yaml:"inputs"`
	Pushbullet PushbulletConfig       `yaml:"pushbullet"`
	Email      EmailConfig            `yaml:"email"`
	Telegram   TelegramConfig         `yaml:"telegram"`
	SMS        SMSConfig              `yaml:"sms"`
	MQTT       MQTTConfig             `yaml:"mqtt"`
	Sensor     SensorConfig           `yaml:"sensor"`
	Photo      PhotoConfig            `yaml:"photo"`
}

// SensorConfig controls the environmental reading appended to alerts.
type SensorConfig struct {
	AppendToAlerts bool `yaml:"append_to_alerts"`
}

// PhotoConfig controls camera capture.
type PhotoConfig struct {
	SpoolDir string `yaml:"spool_dir"`
}

// Defaults returns the factory settings for a board variant.
func Defaults(board string) *Settings {
	pins := DefaultPins(board)
	s := &Settings{
		Board:     board,
		Timezone:  "UTC",
		NTPServer: "pool.ntp.org",
		HTTPAddr:  ":80",
		Cellular:  CellularConfig{SerialPort: "/dev/ttyUSB0"},
		Photo:     PhotoConfig{SpoolDir: "/var/spool/pinwatch"},
	}
	for i := 0; i < SlotCount; i++ {
		s.Inputs[i] = InputConfig{
			Pin:        pins[i],
			Name:       defaultSlotName(i),
			Mode:       ModeToggle,
			OnMessage:  "{timestamp} input active",
			OffMessage: "{timestamp} input inactive",
		}
	}
	s.Pushbullet.Mode = WiFiWithCellularBackup
	s.Email.Mode = WiFiOnly
	s.Email.Port = 587
	s.Telegram.Mode = WiFiWithCellularBackup
	s.SMS.Mode = CellularOnly
	s.MQTT.Mode = WiFiOnly
	s.MQTT.Topic = "pinwatch/alerts"
	return s
}

func defaultSlotName(i int) string {
	return "input-" + string(rune('1'+i))
}
