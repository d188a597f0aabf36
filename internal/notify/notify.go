// Package notify fans a trigger event out to every enabled notification
// channel, routing each over WiFi or cellular per its connection mode,
// and retries transient failures from a bounded, time-ordered queue.
package notify

import (
	"fmt"

	"github.com/sweeney/pinwatch/internal/clock"
	"github.com/sweeney/pinwatch/internal/config"
	"github.com/sweeney/pinwatch/internal/enrich"
	"github.com/sweeney/pinwatch/internal/link"
	"github.com/sweeney/pinwatch/internal/logbuf"

	paho "github.com/eclipse/paho.mqtt.golang"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Service identifies a notification channel. Adding a channel means
// adding a Service value and a sender pair in the table, not a new
// if-chain.
type Service int

const (
	ServicePushbullet Service = iota
	ServiceEmail
	ServiceTelegram
	ServiceSMS
	ServiceMQTT
)

// AllServices is the fixed fan-out order.
var AllServices = []Service{ServicePushbullet, ServiceEmail, ServiceTelegram, ServiceSMS, ServiceMQTT}

// String returns the service name.
func (s Service) String() string {
	switch s {
	case ServicePushbullet:
		return "pushbullet"
	case ServiceEmail:
		return "email"
	case ServiceTelegram:
		return "telegram"
	case ServiceSMS:
		return "sms"
	case ServiceMQTT:
		return "mqtt"
	default:
		return "unknown"
	}
}

// ParseService resolves a service name (used by the web test endpoint).
func ParseService(name string) (Service, bool) {
	for _, s := range AllServices {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// Notification is one payload to deliver.
type Notification struct {
	Title     string
	Body      string
	PhotoPath string
}

// Links is the connectivity surface the dispatcher needs. Implemented by
// link.Manager.
type Links interface {
	WiFiUp() bool
	CellularUp() bool
	SendOverCellular(url, method, payload string) string
	SendSMS(number, text string) bool
}

// SendFunc attempts one delivery and reports success.
type SendFunc func(n Notification) bool

// senderPair holds a channel's WiFi-path and cellular-path senders. A nil
// cellular sender means the channel has no cellular transport.
type senderPair struct {
	wifi     SendFunc
	cellular SendFunc
}

// Dispatcher owns the sender table and the retry queue. All methods run
// on the tick loop.
type Dispatcher struct {
	cfg    *config.Settings
	clk    clock.Clock
	log    *logbuf.Buffer
	links  Links
	sensor enrich.Sensor
	table  map[Service]senderPair
	queue  []*PendingRetry

	// lazily initialized transports
	tgBot         *tgbotapi.BotAPI
	tgToken       string
	mqttClient    paho.Client
	mqttBroker    string
	newMQTTClient func(*paho.ClientOptions) paho.Client
}

// NewDispatcher creates a Dispatcher over the given collaborators.
func NewDispatcher(cfg *config.Settings, clk clock.Clock, log *logbuf.Buffer, links Links, sensor enrich.Sensor) *Dispatcher {
	d := &Dispatcher{
		cfg:           cfg,
		clk:           clk,
		log:           log,
		links:         links,
		sensor:        sensor,
		newMQTTClient: paho.NewClient,
	}
	d.table = map[Service]senderPair{
		ServicePushbullet: {wifi: d.sendPushbulletWiFi, cellular: d.sendPushbulletCellular},
		ServiceEmail:      {wifi: d.sendEmail}, // no cellular path, see Dispatch
		ServiceTelegram:   {wifi: d.sendTelegramWiFi, cellular: d.sendTelegramCellular},
		ServiceSMS:        {cellular: d.sendSMS},
		ServiceMQTT:       {wifi: d.sendMQTT},
	}
	return d
}

// SetConfig swaps the settings reference (applied from the task queue).
func (d *Dispatcher) SetConfig(cfg *config.Settings) {
	d.cfg = cfg
}

// Dispatch delivers the event on every enabled channel. The sensor
// summary is appended once, before fan-out; every channel sends the same
// mutated body.
func (d *Dispatcher) Dispatch(title, body, photoPath string) {
	if d.cfg.Sensor.AppendToAlerts && d.sensor != nil {
		if reading := d.sensor.FormattedReading(); reading != "" {
			body += " [" + reading + "]"
		}
	}

	for _, svc := range AllServices {
		d.dispatchOne(svc, Notification{Title: title, Body: body, PhotoPath: photoPath}, true)
	}
}

// TestSend delivers a test message on a single channel, bypassing the
// input path. Used by the web UI.
func (d *Dispatcher) TestSend(svc Service) {
	d.dispatchOne(svc, Notification{
		Title: "pinwatch test",
		Body:  "test message sent " + d.clk.FormattedLocalTime(),
	}, false)
}

func (d *Dispatcher) dispatchOne(svc Service, n Notification, queueOnFailure bool) {
	enabled, mode, credsOK := d.channelInfo(svc)
	if !enabled {
		return
	}
	if !credsOK {
		d.log.Warning(fmt.Sprintf("%s: enabled but not configured, skipping", svc))
		return
	}

	pair := d.table[svc]
	route := link.ChooseLink(mode, d.links.WiFiUp(), d.links.CellularUp())

	// A channel routed to a path it does not implement: for the
	// cellular side this is the email gap. Fall back to WiFi if up,
	// otherwise skip. No retry is queued; there was nothing to send
	// against.
	if route == link.RouteCellular && pair.cellular == nil {
		if d.links.WiFiUp() && pair.wifi != nil {
			d.log.Warning(fmt.Sprintf("%s: no cellular path, falling back to wifi", svc))
			route = link.RouteWiFi
		} else {
			d.log.Warning(fmt.Sprintf("%s: no cellular path and wifi down, skipping", svc))
			return
		}
	}
	if route == link.RouteWiFi && pair.wifi == nil {
		d.log.Warning(fmt.Sprintf("%s: no wifi path, skipping", svc))
		return
	}
	if route == link.RouteNone {
		d.log.Warning(fmt.Sprintf("%s: no viable link, skipping", svc))
		return
	}

	var ok bool
	switch route {
	case link.RouteWiFi:
		ok = pair.wifi(n)
	case link.RouteCellular:
		ok = pair.cellular(n)
	}

	if ok {
		d.log.Success(fmt.Sprintf("%s: delivered %q via %s", svc, n.Title, route))
		return
	}

	if queueOnFailure {
		d.enqueueRetry(svc, n)
	} else {
		d.log.Warning(fmt.Sprintf("%s: test send failed", svc))
	}
}

// channelInfo returns (enabled, connection mode, credentials present) for
// a service. Missing credentials are detected here, at the moment of use.
func (d *Dispatcher) channelInfo(svc Service) (bool, config.ConnectionMode, bool) {
	switch svc {
	case ServicePushbullet:
		c := d.cfg.Pushbullet
		return c.Enabled, c.Mode, c.Token != ""
	case ServiceEmail:
		c := d.cfg.Email
		return c.Enabled, c.Mode, c.Host != "" && c.From != "" && c.To != ""
	case ServiceTelegram:
		c := d.cfg.Telegram
		return c.Enabled, c.Mode, c.Token != "" && c.ChatID != 0
	case ServiceSMS:
		c := d.cfg.SMS
		return c.Enabled, c.Mode, c.Number != ""
	case ServiceMQTT:
		c := d.cfg.MQTT
		return c.Enabled, c.Mode, c.Broker != ""
	}
	return false, "", false
}
