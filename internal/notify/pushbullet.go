package notify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"
)

const pushbulletHost = "api.pushbullet.com"

type pushbulletPush struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (d *Dispatcher) pushbulletPayload(n Notification) []byte {
	body := n.Body
	if n.PhotoPath != "" {
		// Pushes are text-only; reference the captured file.
		body += " (photo: " + n.PhotoPath + ")"
	}
	payload, _ := json.Marshal(pushbulletPush{Type: "note", Title: n.Title, Body: body})
	return payload
}

func (d *Dispatcher) sendPushbulletWiFi(n Notification) bool {
	payload := d.pushbulletPayload(n)

	req, err := http.NewRequest(http.MethodPost, "https://"+pushbulletHost+"/v2/pushes", bytes.NewReader(payload))
	if err != nil {
		d.log.Warning("pushbullet: build request: " + err.Error())
		return false
	}
	req.Header.Set("Access-Token", d.cfg.Pushbullet.Token)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		d.log.Warning("pushbullet: " + err.Error())
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		d.log.Warning("pushbullet: unexpected status " + resp.Status)
		return false
	}
	return true
}

// sendPushbulletCellular relays the push through the modem. The API
// accepts the access token as a basic-auth user, which survives the AT
// relay's plain URL+payload interface.
func (d *Dispatcher) sendPushbulletCellular(n Notification) bool {
	url := "https://" + d.cfg.Pushbullet.Token + "@" + pushbulletHost + "/v2/pushes"
	return d.links.SendOverCellular(url, "POST", string(d.pushbulletPayload(n))) != ""
}
