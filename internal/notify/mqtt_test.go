package notify

import (
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/pinwatch/internal/logbuf"
)

type fakeMQTTToken struct {
	err      error
	timedOut bool
}

func (t fakeMQTTToken) Wait() bool                     { return true }
func (t fakeMQTTToken) WaitTimeout(time.Duration) bool { return !t.timedOut }
func (t fakeMQTTToken) Error() error                   { return t.err }

func (t fakeMQTTToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type fakeMQTTClient struct {
	connectErr     error
	connectTimeout bool
	publishErr     error

	publishes   []string
	disconnects int
}

func (c *fakeMQTTClient) IsConnected() bool      { return true }
func (c *fakeMQTTClient) IsConnectionOpen() bool { return true }

func (c *fakeMQTTClient) Connect() paho.Token {
	return fakeMQTTToken{err: c.connectErr, timedOut: c.connectTimeout}
}

func (c *fakeMQTTClient) Disconnect(quiesce uint) { c.disconnects++ }

func (c *fakeMQTTClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.publishes = append(c.publishes, topic+": "+string(payload.([]byte)))
	return fakeMQTTToken{err: c.publishErr}
}

func (c *fakeMQTTClient) Subscribe(string, byte, paho.MessageHandler) paho.Token {
	return fakeMQTTToken{}
}

func (c *fakeMQTTClient) SubscribeMultiple(map[string]byte, paho.MessageHandler) paho.Token {
	return fakeMQTTToken{}
}

func (c *fakeMQTTClient) Unsubscribe(...string) paho.Token { return fakeMQTTToken{} }

func (c *fakeMQTTClient) AddRoute(string, paho.MessageHandler) {}

func (c *fakeMQTTClient) OptionsReader() paho.ClientOptionsReader {
	return paho.ClientOptionsReader{}
}

func newMQTTTestDispatcher(fc *fakeMQTTClient) (*Dispatcher, *logbuf.Buffer) {
	d, _, buf := newTestDispatcher(&fakeLinks{wifi: true}, nil)
	d.cfg.MQTT.Enabled = true
	d.cfg.MQTT.Broker = "tcp://broker.local:1883"
	d.cfg.MQTT.Topic = "pinwatch/alerts"
	d.newMQTTClient = func(*paho.ClientOptions) paho.Client { return fc }
	return d, buf
}

func TestMQTTPublishesAlertJSON(t *testing.T) {
	fc := &fakeMQTTClient{}
	d, _ := newMQTTTestDispatcher(fc)

	if !d.sendMQTT(Notification{Title: "alert", Body: "door opened"}) {
		t.Fatal("send failed")
	}
	if len(fc.publishes) != 1 {
		t.Fatalf("publishes = %d, want 1", len(fc.publishes))
	}
	want := `pinwatch/alerts: {"title":"alert","body":"door opened","timestamp":"2026-01-01 12:00:00"}`
	if fc.publishes[0] != want {
		t.Errorf("publish = %q\nwant %q", fc.publishes[0], want)
	}
	if fc.disconnects != 0 {
		t.Errorf("disconnects = %d on the success path, want 0", fc.disconnects)
	}
}

func TestMQTTFailedConnectReleasesClient(t *testing.T) {
	fc := &fakeMQTTClient{connectErr: errors.New("connection refused")}
	d, buf := newMQTTTestDispatcher(fc)

	if d.sendMQTT(Notification{Title: "alert", Body: "door opened"}) {
		t.Fatal("send should fail when connect fails")
	}
	if fc.disconnects != 1 {
		t.Fatalf("disconnects = %d, want 1: a client that failed to connect must be released", fc.disconnects)
	}
	if d.mqttClient != nil {
		t.Fatal("failed client must not be cached")
	}
	if !hasLogEntry(buf, logbuf.LevelWarning, "mqtt: connect") {
		t.Error("connect failure not logged")
	}
}

func TestMQTTConnectTimeoutReleasesClient(t *testing.T) {
	fc := &fakeMQTTClient{connectTimeout: true}
	d, _ := newMQTTTestDispatcher(fc)

	// Repeated attempts against an unreachable broker, as the retry
	// queue produces. Every attempt must release its client.
	for i := 0; i < 3; i++ {
		if d.sendMQTT(Notification{Title: "alert", Body: "door opened"}) {
			t.Fatal("send should fail on connect timeout")
		}
	}
	if fc.disconnects != 3 {
		t.Fatalf("disconnects = %d, want 3 (one per failed attempt)", fc.disconnects)
	}
}

func TestMQTTReusesClientAcrossSends(t *testing.T) {
	fc := &fakeMQTTClient{}
	d, _ := newMQTTTestDispatcher(fc)

	d.sendMQTT(Notification{Title: "a", Body: "b"})
	d.sendMQTT(Notification{Title: "c", Body: "d"})

	if len(fc.publishes) != 2 {
		t.Fatalf("publishes = %d, want 2", len(fc.publishes))
	}
	if fc.disconnects != 0 {
		t.Errorf("disconnects = %d, want 0 while the broker is unchanged", fc.disconnects)
	}
}
