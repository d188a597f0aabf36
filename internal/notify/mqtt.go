package notify

import (
	"encoding/json"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

type mqttAlert struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Photo     string `json:"photo,omitempty"`
	Timestamp string `json:"timestamp"`
}

// sendMQTT publishes the alert as JSON to the configured topic. The
// client is created lazily and kept across sends; paho handles
// reconnection on its own.
func (d *Dispatcher) sendMQTT(n Notification) bool {
	cfg := d.cfg.MQTT

	if d.mqttClient == nil || d.mqttBroker != cfg.Broker {
		if d.mqttClient != nil {
			d.mqttClient.Disconnect(250)
			d.mqttClient = nil
		}
		opts := paho.NewClientOptions().
			AddBroker(cfg.Broker).
			SetClientID("pinwatch").
			SetAutoReconnect(true)

		client := d.newMQTTClient(opts)
		token := client.Connect()
		if !token.WaitTimeout(10 * time.Second) {
			// Disconnect the abandoned client, or its auto-reconnect
			// goroutines keep dialing behind every future attempt.
			client.Disconnect(0)
			d.log.Warning("mqtt: connect timeout")
			return false
		}
		if err := token.Error(); err != nil {
			client.Disconnect(0)
			d.log.Warning("mqtt: connect: " + err.Error())
			return false
		}
		d.mqttClient = client
		d.mqttBroker = cfg.Broker
	}

	payload, _ := json.Marshal(mqttAlert{
		Title:     n.Title,
		Body:      n.Body,
		Photo:     n.PhotoPath,
		Timestamp: d.clk.FormattedLocalTime(),
	})

	// QoS 1 (at-least-once): alerts matter more than duplicates.
	token := d.mqttClient.Publish(cfg.Topic, 1, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		d.log.Warning("mqtt: publish timeout")
		return false
	}
	if err := token.Error(); err != nil {
		d.log.Warning("mqtt: publish: " + err.Error())
		return false
	}
	return true
}

// CloseTransports releases the long-lived sender connections at
// shutdown.
func (d *Dispatcher) CloseTransports() {
	if d.mqttClient != nil {
		d.mqttClient.Disconnect(1000)
		d.mqttClient = nil
	}
}
