package chat

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// VerifySignature checks the X-Line-Signature header: base64(HMAC-SHA256(body, channelSecret))
func VerifySignature(channelSecret string, body []byte, signature string) bool {
	if channelSecret == "" || signature == "" {
		return false
	}
	given, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return hmac.Equal(given, mac.Sum(nil))
}

// Event is the subset of a webhook event the service reacts to
type Event struct {
	Type        string
	ReplyToken  string
	UserID      string
	MessageType string
	Text        string
}

// ParseEvents extracts events from a webhook body. Malformed entries are skipped.
func ParseEvents(body []byte) []Event {
	var events []Event
	gjson.GetBytes(body, "events").ForEach(func(_, ev gjson.Result) bool {
		events = append(events, Event{
			Type:        ev.Get("type").String(),
			ReplyToken:  ev.Get("replyToken").String(),
			UserID:      ev.Get("source.userId").String(),
			MessageType: ev.Get("message.type").String(),
			Text:        ev.Get("message.text").String(),
		})
		return true
	})
	return events
}

var linkCommand = regexp.MustCompile(`(?i)^\s*link\s+([A-Za-z0-9]{6})\s*$`)

// LinkCode returns the code of a "LINK <code>" text message
func (e Event) LinkCode() (string, bool) {
	if e.Type != "message" || e.MessageType != "text" || e.UserID == "" {
		return "", false
	}
	m := linkCommand.FindStringSubmatch(e.Text)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}
