package notify

import (
	"fmt"
	"net/url"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (d *Dispatcher) sendTelegramWiFi(n Notification) bool {
	cfg := d.cfg.Telegram

	// The bot client is created lazily: at boot the network may not be
	// up yet, and the token can change on a settings save.
	if d.tgBot == nil || d.tgToken != cfg.Token {
		bot, err := tgbotapi.NewBotAPI(cfg.Token)
		if err != nil {
			d.log.Warning("telegram: bot init: " + err.Error())
			return false
		}
		d.tgBot = bot
		d.tgToken = cfg.Token
	}

	text := n.Title + ": " + n.Body

	if n.PhotoPath != "" {
		photo := tgbotapi.NewPhoto(cfg.ChatID, tgbotapi.FilePath(n.PhotoPath))
		photo.Caption = text
		if _, err := d.tgBot.Send(photo); err != nil {
			d.log.Warning("telegram: send photo: " + err.Error())
			return false
		}
		return true
	}

	msg := tgbotapi.NewMessage(cfg.ChatID, text)
	if _, err := d.tgBot.Send(msg); err != nil {
		d.log.Warning("telegram: " + err.Error())
		return false
	}
	return true
}

// sendTelegramCellular relays a plain sendMessage call through the
// modem. Photos are not uploaded over the relay; the message references
// the file instead.
func (d *Dispatcher) sendTelegramCellular(n Notification) bool {
	cfg := d.cfg.Telegram

	text := n.Title + ": " + n.Body
	if n.PhotoPath != "" {
		text += " (photo: " + n.PhotoPath + ")"
	}

	u := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage?chat_id=%d&text=%s",
		cfg.Token, cfg.ChatID, url.QueryEscape(text))
	return d.links.SendOverCellular(u, "GET", "") != ""
}
