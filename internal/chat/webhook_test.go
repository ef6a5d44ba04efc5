package chat

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"events":[]}`)
	assert.True(t, VerifySignature("secret", body, sign("secret", body)))
	assert.False(t, VerifySignature("secret", body, sign("other", body)))
	assert.False(t, VerifySignature("secret", body, "not base64!"))
	assert.False(t, VerifySignature("secret", body, ""))
	assert.False(t, VerifySignature("", body, sign("", body)))
}

func TestParseEvents(t *testing.T) {
	body := []byte(`{
		"destination": "Uxxx",
		"events": [
			{"type": "message", "replyToken": "r1", "source": {"type": "user", "userId": "U1"}, "message": {"type": "text", "text": "link k7p2qx"}},
			{"type": "follow", "replyToken": "r2", "source": {"type": "user", "userId": "U2"}},
			{"type": "message", "replyToken": "r3", "source": {"type": "user", "userId": "U3"}, "message": {"type": "sticker"}}
		]
	}`)

	events := ParseEvents(body)
	require.Len(t, events, 3)

	code, ok := events[0].LinkCode()
	assert.True(t, ok)
	assert.Equal(t, "K7P2QX", code)
	assert.Equal(t, "r1", events[0].ReplyToken)

	_, ok = events[1].LinkCode()
	assert.False(t, ok)
	_, ok = events[2].LinkCode()
	assert.False(t, ok)
}

func TestLinkCode_RejectsOtherText(t *testing.T) {
	for _, text := range []string{"hello", "LINK", "LINK ABC", "LINK ABCDEFG", "please LINK ABC123"} {
		_, ok := Event{Type: "message", MessageType: "text", UserID: "U1", Text: text}.LinkCode()
		assert.False(t, ok, text)
	}
}

func TestParseEvents_Empty(t *testing.T) {
	assert.Empty(t, ParseEvents([]byte(`{}`)))
	assert.Empty(t, ParseEvents([]byte(`not json`)))
}
