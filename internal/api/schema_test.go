package api

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatapi/internal/models"
)

func decodeAndValidate(t *testing.T, body string) error {
	t.Helper()
	in, err := DecodeMessageIn(strings.NewReader(body))
	if err != nil {
		return err
	}
	in.Normalize()
	_, err = in.Validate()
	return err
}

func TestDecodeMessageInWrongFieldType(t *testing.T) {
	_, err := DecodeMessageIn(strings.NewReader(`{"content": 12345, "sender_id": "sender_1"}`))
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "content", ve.Field)
}

func TestDecodeMessageInMalformedJSON(t *testing.T) {
	_, err := DecodeMessageIn(strings.NewReader(`not a json`))
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "body", ve.Field)
}

func TestDecodeMessageInTrailingData(t *testing.T) {
	_, err := DecodeMessageIn(strings.NewReader(`{"content":"hi","sender_id":"sender_1"}{"content":"again"}`))
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "body", ve.Field)

	// Insignificant whitespace after the object is still a single value.
	in, err := DecodeMessageIn(strings.NewReader("{\"content\":\"hi\",\"sender_id\":\"sender_1\"}\n"))
	require.NoError(t, err)
	assert.Equal(t, "hi", in.Content)
}

func TestNormalizeLegacySender(t *testing.T) {
	in := &MessageIn{SessionID: "sess_1", Content: "hi", Sender: "sender_1"}
	in.Normalize()

	assert.Equal(t, "sender_1", in.SenderID)
	assert.Equal(t, "user", in.SenderType)
	assert.Empty(t, in.Sender)
}

func TestNormalizeLegacyEquivalence(t *testing.T) {
	legacy := &MessageIn{SessionID: "sess_1", Content: "hi", Sender: "sender_1"}
	legacy.Normalize()
	current := &MessageIn{SessionID: "sess_1", Content: "hi", SenderID: "sender_1", SenderType: "user"}
	current.Normalize()

	legacyMsg, err := legacy.Validate()
	require.NoError(t, err)
	currentMsg, err := current.Validate()
	require.NoError(t, err)
	assert.Equal(t, currentMsg, legacyMsg)
}

func TestNormalizeLowercasesSenderType(t *testing.T) {
	in := &MessageIn{SessionID: "sess_1", Content: "hi", SenderID: "sender_1", SenderType: "SYSTEM"}
	in.Normalize()

	msg, err := in.Validate()
	require.NoError(t, err)
	assert.Equal(t, models.SenderTypeSystem, msg.SenderType)
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"missing session_id", `{"content": "hi", "sender_id": "sender_1"}`, "session_id"},
		{"empty content", `{"session_id": "s", "content": "   ", "sender_id": "sender_1"}`, "content"},
		{"missing sender reference", `{"session_id": "s", "content": "hi"}`, "sender_id"},
		{"invalid sender_type", `{"session_id": "s", "content": "hi", "sender_id": "x", "sender_type": "bot"}`, "sender_type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := decodeAndValidate(t, tc.body)
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestValidateTrimsContent(t *testing.T) {
	in := &MessageIn{SessionID: "s", Content: "  hello  ", SenderID: "sender_1"}
	in.Normalize()

	msg, err := in.Validate()
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
}

func TestMessageOutSerialization(t *testing.T) {
	processedAt := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	msg := models.Message{
		MessageID:      "msg-1",
		SessionID:      "sess_1",
		SenderID:       "sender_1",
		SenderType:     models.SenderTypeUser,
		Content:        "Hola mundo",
		WordCount:      2,
		CharacterCount: 10,
		ProcessedAt:    processedAt,
		Seq:            7,
	}

	data, err := json.Marshal(NewMessageOut(&msg))
	require.NoError(t, err)

	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, "msg-1", flat["message_id"])
	assert.Equal(t, "sess_1", flat["session_id"])
	assert.Equal(t, "sender_1", flat["sender_id"])
	assert.Equal(t, "user", flat["sender_type"])
	assert.Equal(t, "Hola mundo", flat["content"])
	assert.Equal(t, float64(2), flat["word_count"])
	assert.Equal(t, float64(10), flat["character_count"])
	assert.Contains(t, flat, "processed_at")
	assert.NotContains(t, flat, "seq")
}
