package notify

// sendSMS delivers over the cellular modem (AT+CMGS). SMS has no WiFi
// path; a channel misconfigured to WiFi-only is skipped by the
// dispatcher.
func (d *Dispatcher) sendSMS(n Notification) bool {
	return d.links.SendSMS(d.cfg.SMS.Number, n.Title+": "+n.Body)
}
