package gmail

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"

	gmailapi "google.golang.org/api/gmail/v1"
)

func encoded(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestMessageBodyPrefersPlainText(t *testing.T) {
	payload := &gmailapi.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmailapi.MessagePart{
			{MimeType: "text/html", Body: &gmailapi.MessagePartBody{Data: encoded("<b>hi</b>")}},
			{MimeType: "text/plain", Body: &gmailapi.MessagePartBody{Data: encoded("hi")}},
		},
	}

	assert.Equal(t, "hi", messageBody(payload))
}

func TestMessageBodyWalksNestedParts(t *testing.T) {
	payload := &gmailapi.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmailapi.MessagePart{
			{
				MimeType: "multipart/alternative",
				Parts: []*gmailapi.MessagePart{
					{MimeType: "text/plain", Body: &gmailapi.MessagePartBody{Data: encoded("nested body")}},
				},
			},
		},
	}

	assert.Equal(t, "nested body", messageBody(payload))
}

func TestMessageBodyFallsBackToPayload(t *testing.T) {
	payload := &gmailapi.MessagePart{
		MimeType: "text/plain",
		Body:     &gmailapi.MessagePartBody{Data: encoded("flat body")},
	}

	assert.Equal(t, "flat body", messageBody(payload))
}

func TestMessageBodyWhenEmpty(t *testing.T) {
	assert.Equal(t, "No message body found.", messageBody(nil))
	assert.Equal(t, "No message body found.", messageBody(&gmailapi.MessagePart{MimeType: "text/plain"}))
}

func TestConvertMessageUsesHeaders(t *testing.T) {
	msg := &gmailapi.Message{
		Id:       "m1",
		ThreadId: "t1",
		Snippet:  "snippet",
		Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "From", Value: "alice@example.com"},
				{Name: "Subject", Value: "Lunch"},
				{Name: "Date", Value: "Mon, 3 Mar 2025 12:00:00 +0000"},
			},
			MimeType: "text/plain",
			Body:     &gmailapi.MessagePartBody{Data: encoded("Noon?")},
		},
	}

	email := convertMessage(msg, true)
	assert.Equal(t, "m1", email.ID)
	assert.Equal(t, "t1", email.ThreadID)
	assert.Equal(t, "alice@example.com", email.Sender)
	assert.Equal(t, "Lunch", email.Subject)
	assert.Equal(t, "Noon?", email.Body)

	withoutBody := convertMessage(msg, false)
	assert.Empty(t, withoutBody.Body)
}

func TestConvertMessageDefaults(t *testing.T) {
	email := convertMessage(&gmailapi.Message{Id: "m2"}, false)
	assert.Equal(t, "Unknown", email.Sender)
	assert.Equal(t, "No Subject", email.Subject)
	assert.Equal(t, "Unknown", email.Date)
}

func TestEncodeHeader(t *testing.T) {
	assert.Equal(t, "Plain subject", encodeHeader("Plain subject"))

	encoded := encodeHeader("Grüße aus Köln")
	assert.Contains(t, encoded, "=?UTF-8?")
}
