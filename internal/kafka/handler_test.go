package kafka

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/matzehuels/graphbot/pkg/cache"
	"github.com/matzehuels/graphbot/pkg/dialogue"
	"github.com/matzehuels/graphbot/pkg/errors"
	"github.com/matzehuels/graphbot/pkg/render"
)

var echoRenderer = render.Func(func(_ context.Context, doc string, format render.Format) ([]byte, error) {
	return []byte(doc), nil
})

func newTestHandler(t *testing.T, producer sarama.SyncProducer, r render.Renderer) *Handler {
	t.Helper()
	if r == nil {
		r = echoRenderer
	}
	logger := log.New(io.Discard)
	bot := dialogue.NewBot(dialogue.NewMemoryStore(0), r, dialogue.Options{}, logger)
	h := NewHandler(bot, producer, "replies", logger)
	h.retry = cache.Backoff{Attempts: 3, Initial: time.Millisecond}.Retry
	return h
}

func requestMessage(t *testing.T, sessionID, text string) *sarama.ConsumerMessage {
	t.Helper()
	data, err := json.Marshal(Request{SessionID: sessionID, Text: text})
	if err != nil {
		t.Fatal(err)
	}
	return &sarama.ConsumerMessage{Topic: "requests", Value: data}
}

// expectReply queues a successful send whose payload is decoded into dst.
func expectReply(p *mocks.SyncProducer, dst *Reply) {
	p.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		return json.Unmarshal(val, dst)
	})
}

func TestHandleMessageDialogue(t *testing.T) {
	ctx := context.Background()
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()
	h := newTestHandler(t, producer, nil)

	var prompt, image Reply
	expectReply(producer, &prompt)
	expectReply(producer, &image)

	if err := h.HandleMessage(ctx, requestMessage(t, "chat-1", "A B label")); err != nil {
		t.Fatalf("HandleMessage error: %v", err)
	}
	if err := h.HandleMessage(ctx, requestMessage(t, "chat-1", "y")); err != nil {
		t.Fatalf("HandleMessage error: %v", err)
	}

	if prompt.Text != dialogue.PromptDirection || prompt.SessionID != "chat-1" {
		t.Errorf("first reply = %+v", prompt)
	}
	if _, err := ulid.Parse(prompt.ID); err != nil {
		t.Errorf("reply ID %q is not a ULID: %v", prompt.ID, err)
	}
	if image.Format != render.FormatPNG || !strings.Contains(string(image.Image), `"A" -> "B" [label="label"]`) {
		t.Errorf("image reply = %+v", image)
	}
	if image.ID <= prompt.ID {
		t.Errorf("reply IDs should increase: %q then %q", prompt.ID, image.ID)
	}
}

func TestHandleMessageDropsMalformed(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()
	h := newTestHandler(t, producer, nil)

	tests := []*sarama.ConsumerMessage{
		{Value: []byte("not json")},
		requestMessage(t, "", "A B"),
		requestMessage(t, "../x", "A B"),
	}
	for _, msg := range tests {
		if err := h.HandleMessage(context.Background(), msg); err != nil {
			t.Errorf("HandleMessage(%q) = %v, want nil", msg.Value, err)
		}
	}
	// No expectations: the mock fails the test on any send.
}

func TestHandleMessageBotError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()
	failing := render.Func(func(context.Context, string, render.Format) ([]byte, error) {
		return nil, errors.New(errors.ErrCodeRenderFailed, "dot crashed")
	})
	h := newTestHandler(t, producer, failing)

	var prompt, failed Reply
	expectReply(producer, &prompt)
	expectReply(producer, &failed)

	ctx := context.Background()
	h.HandleMessage(ctx, requestMessage(t, "chat", "A B"))
	if err := h.HandleMessage(ctx, requestMessage(t, "chat", "n")); err != nil {
		t.Fatal(err)
	}
	if failed.Error == nil || failed.Error.Code != errors.ErrCodeRenderFailed {
		t.Errorf("reply error = %+v, want RENDER_FAILED", failed.Error)
	}
}

func TestHandleMessagePublishRetry(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()
	h := newTestHandler(t, producer, nil)

	producer.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)
	producer.ExpectSendMessageAndSucceed()

	if err := h.HandleMessage(context.Background(), requestMessage(t, "chat", "A")); err != nil {
		t.Errorf("HandleMessage = %v, want success after retry", err)
	}
}

func TestHandleMessagePublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()
	h := newTestHandler(t, producer, nil)

	for i := 0; i < 3; i++ {
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	}
	err := h.HandleMessage(context.Background(), requestMessage(t, "chat", "A"))
	if !stderrors.Is(err, sarama.ErrOutOfBrokers) {
		t.Errorf("HandleMessage = %v, want ErrOutOfBrokers", err)
	}
}

func TestHandleMessageRedeliveryAfterPublishFailure(t *testing.T) {
	ctx := context.Background()
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()
	h := newTestHandler(t, producer, nil)

	msg := requestMessage(t, "s1", "A B")
	msg.Partition, msg.Offset = 2, 41
	for i := 0; i < 3; i++ {
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	}
	if err := h.HandleMessage(ctx, msg); err == nil {
		t.Fatal("HandleMessage should fail when every publish fails")
	}

	var replayed, image Reply
	expectReply(producer, &replayed)
	expectReply(producer, &image)
	if err := h.HandleMessage(ctx, msg); err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if replayed.Text != dialogue.PromptDirection {
		t.Errorf("redelivered reply = %q, want %q", replayed.Text, dialogue.PromptDirection)
	}

	next := requestMessage(t, "s1", "y")
	next.Partition, next.Offset = 2, 42
	if err := h.HandleMessage(ctx, next); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(image.Image), `"A" -> "B"`) {
		t.Errorf("answer after redelivery = %+v", image)
	}
	if len(h.pending) != 0 {
		t.Errorf("pending replies = %v, want none", h.pending)
	}
}

// fakeSession is a minimal sarama.ConsumerGroupSession.
type fakeSession struct {
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Claims() map[string][]int32               { return nil }
func (s *fakeSession) MemberID() string                         { return "member-1" }
func (s *fakeSession) GenerationID() int32                      { return 1 }
func (s *fakeSession) MarkOffset(string, int32, int64, string)  {}
func (s *fakeSession) ResetOffset(string, int32, int64, string) {}
func (s *fakeSession) Context() context.Context                 { return s.ctx }
func (s *fakeSession) MarkMessage(m *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, m.Offset)
}

// fakeClaim is a sarama.ConsumerGroupClaim over a closed channel.
type fakeClaim struct{ ch chan *sarama.ConsumerMessage }

func (c *fakeClaim) Topic() string                            { return "requests" }
func (c *fakeClaim) Partition() int32                         { return 0 }
func (c *fakeClaim) InitialOffset() int64                     { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64               { return 0 }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.ch }

func TestConsumeClaim(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()
	h := newTestHandler(t, producer, nil)

	claim := &fakeClaim{ch: make(chan *sarama.ConsumerMessage, 3)}
	for i, text := range []string{"A B", "bogus", "y"} {
		msg := requestMessage(t, fmt.Sprintf("chat-%d", i%2), text)
		msg.Offset = int64(i)
		claim.ch <- msg
	}
	close(claim.ch)
	for i := 0; i < 3; i++ {
		producer.ExpectSendMessageAndSucceed()
	}

	sess := &fakeSession{ctx: context.Background()}
	if err := h.Setup(sess); err != nil {
		t.Fatal(err)
	}
	if err := h.ConsumeClaim(sess, claim); err != nil {
		t.Fatalf("ConsumeClaim error: %v", err)
	}
	if err := h.Cleanup(sess); err != nil {
		t.Fatal(err)
	}

	if len(sess.marked) != 3 {
		t.Errorf("marked offsets = %v, want 3 messages", sess.marked)
	}
}

func TestConsumeClaimStopsOnPublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()
	h := newTestHandler(t, producer, nil)

	for i := 0; i < 3; i++ {
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	}
	claim := &fakeClaim{ch: make(chan *sarama.ConsumerMessage, 1)}
	claim.ch <- requestMessage(t, "chat", "A")
	close(claim.ch)

	sess := &fakeSession{ctx: context.Background()}
	if err := h.ConsumeClaim(sess, claim); err == nil {
		t.Error("ConsumeClaim should fail when replies cannot be published")
	}
	if len(sess.marked) != 0 {
		t.Errorf("failed message should not be marked, got %v", sess.marked)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Brokers: []string{"k:9092"}, Group: "g", RequestTopic: "in", ReplyTopic: "out"}
	if err := valid.validate(); err != nil {
		t.Errorf("validate() = %v", err)
	}

	tests := map[string]func(*Config){
		"brokers": func(c *Config) { c.Brokers = nil },
		"group":   func(c *Config) { c.Group = "" },
		"topics":  func(c *Config) { c.ReplyTopic = "" },
	}
	for name, modify := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid
			modify(&c)
			if err := c.validate(); err == nil {
				t.Error("validate() should fail")
			}
		})
	}
}
