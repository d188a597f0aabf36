package notify

import (
	"gopkg.in/gomail.v2"
)

// sendEmail delivers over SMTP, attaching the captured photo when
// present. Email has no cellular path; the dispatcher handles that gap.
func (d *Dispatcher) sendEmail(n Notification) bool {
	cfg := d.cfg.Email

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", cfg.To)
	m.SetHeader("Subject", n.Title)
	m.SetBody("text/plain", n.Body)
	if n.PhotoPath != "" {
		m.Attach(n.PhotoPath)
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if err := dialer.DialAndSend(m); err != nil {
		d.log.Warning("email: " + err.Error())
		return false
	}
	return true
}
