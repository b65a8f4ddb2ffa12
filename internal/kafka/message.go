// Package kafka serves the dialogue bot over Kafka.
//
// The worker consumes [Request] messages from a request topic as part of a
// consumer group, passes them to the bot, and publishes one [Reply] per
// request to a reply topic, keyed by session ID so replies of one session
// stay ordered within a partition.
package kafka

import (
	"github.com/matzehuels/graphbot/pkg/errors"
	"github.com/matzehuels/graphbot/pkg/render"
)

// Request is a chat message addressed to the bot.
type Request struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// Reply is the bot's answer. ID is a ULID, so replies sort by creation
// time. Image is base64-encoded in JSON.
type Reply struct {
	ID        string        `json:"id"`
	RequestID string        `json:"request_id,omitempty"`
	SessionID string        `json:"session_id"`
	Text      string        `json:"text,omitempty"`
	Image     []byte        `json:"image,omitempty"`
	Format    render.Format `json:"format,omitempty"`
	DOT       string        `json:"dot,omitempty"`
	Error     *ReplyError   `json:"error,omitempty"`
}

// ReplyError reports a failed request.
type ReplyError struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}
