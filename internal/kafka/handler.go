package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Shopify/sarama"
	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/matzehuels/graphbot/pkg/cache"
	"github.com/matzehuels/graphbot/pkg/dialogue"
	"github.com/matzehuels/graphbot/pkg/errors"
	"github.com/matzehuels/graphbot/pkg/observability"
)

const transportName = "kafka"

// Handler is a sarama.ConsumerGroupHandler that answers requests with the
// bot and publishes the replies.
type Handler struct {
	bot        *dialogue.Bot
	producer   sarama.SyncProducer
	replyTopic string
	logger     *log.Logger
	retry      func(ctx context.Context, fn func() error) error

	mu      sync.Mutex
	pending map[messageKey]Reply // computed but unpublished replies
}

// messageKey identifies a request record within the consumed topic.
type messageKey struct {
	topic     string
	partition int32
	offset    int64
}

// NewHandler creates a handler. A nil logger uses log.Default().
func NewHandler(bot *dialogue.Bot, producer sarama.SyncProducer, replyTopic string, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		bot:        bot,
		producer:   producer,
		replyTopic: replyTopic,
		logger:     logger,
		retry:      cache.RetryWithBackoff,
		pending:    make(map[messageKey]Reply),
	}
}

// Setup is run at the beginning of a new session, before ConsumeClaim.
func (h *Handler) Setup(sess sarama.ConsumerGroupSession) error {
	h.logger.Info("joined consumer group", "member", sess.MemberID(), "generation", sess.GenerationID())
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines
// have exited.
func (h *Handler) Cleanup(sess sarama.ConsumerGroupSession) error {
	h.logger.Debug("left consumer group", "member", sess.MemberID())
	return nil
}

// ConsumeClaim handles the messages of one partition. A message is marked
// consumed once its reply is published or it is found malformed.
func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := sess.Context()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.HandleMessage(ctx, msg); err != nil {
				// Leave the offset unmarked so the message is redelivered.
				h.logger.Error("handle message",
					"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "error", err)
				return err
			}
			sess.MarkMessage(msg, "")
		case <-ctx.Done():
			return nil
		}
	}
}

// HandleMessage answers one request message. It returns an error only when
// the reply could not be published. The reply is then kept, and a
// redelivery of the same record publishes it again without running the
// dialogue a second time.
func (h *Handler) HandleMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var req Request
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		h.logger.Warn("dropping malformed request", "offset", msg.Offset, "error", err)
		return nil
	}
	if err := errors.ValidateSessionID(req.SessionID); err != nil {
		h.logger.Warn("dropping request", "offset", msg.Offset, "error", err)
		return nil
	}

	observability.Transport().OnMessage(ctx, transportName, req.SessionID)
	start := time.Now()
	key := messageKey{topic: msg.Topic, partition: msg.Partition, offset: msg.Offset}
	reply, ok := h.takePending(key)
	if ok {
		h.logger.Debug("replaying reply", "session", req.SessionID, "offset", msg.Offset, "id", reply.ID)
	} else {
		reply = h.answer(ctx, req)
	}
	err := h.publish(ctx, reply)
	if err != nil {
		h.setPending(key, reply)
	}
	observability.Transport().OnReply(ctx, transportName, req.SessionID, time.Since(start), err)
	return err
}

func (h *Handler) takePending(key messageKey) (Reply, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	reply, ok := h.pending[key]
	delete(h.pending, key)
	return reply, ok
}

func (h *Handler) setPending(key messageKey, reply Reply) {
	h.mu.Lock()
	h.pending[key] = reply
	h.mu.Unlock()
}

func (h *Handler) answer(ctx context.Context, req Request) Reply {
	reply := Reply{
		ID:        ulid.Make().String(),
		SessionID: req.SessionID,
	}

	r, err := h.bot.Handle(ctx, req.SessionID, req.Text)
	if err != nil {
		h.logger.Error("bot failed", "session", req.SessionID, "error", err)
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		reply.Error = &ReplyError{Code: code, Message: errors.UserMessage(err)}
		return reply
	}

	reply.Text = r.Text
	reply.Image = r.Image
	reply.Format = r.Format
	reply.DOT = r.DOT
	return reply
}

func (h *Handler) publish(ctx context.Context, reply Reply) error {
	data, err := json.Marshal(reply)
	if err != nil {
		return fmt.Errorf("marshal reply: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: h.replyTopic,
		Key:   sarama.StringEncoder(reply.SessionID),
		Value: sarama.ByteEncoder(data),
	}
	return h.retry(ctx, func() error {
		if _, _, err := h.producer.SendMessage(msg); err != nil {
			return cache.Retryable(fmt.Errorf("publish reply: %w", err))
		}
		return nil
	})
}

var _ sarama.ConsumerGroupHandler = (*Handler)(nil)
