package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"shopadmin/internal/domain"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runServer(t *testing.T) *server.Server {
	t.Helper()
	ns, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1, NoLog: true, NoSigs: true})
	require.NoError(t, err)
	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("nats server not ready")
	}
	t.Cleanup(ns.Shutdown)
	return ns
}

func TestRecorderPublishesToNATS(t *testing.T) {
	ns := runServer(t)

	sub, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	defer sub.Close()
	inbox, err := sub.SubscribeSync("audit.events.>")
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	pub, err := Connect(ns.ClientURL(), "audit.events")
	require.NoError(t, err)

	rec := NewRecorder(pub, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	rec.Record(context.Background(), domain.RequestContext{UserID: 3, RequestID: "req-1"}, ActionUpdate, "product", 42)
	require.NoError(t, pub.Close(context.Background()))

	msg, err := inbox.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "audit.events.product", msg.Subject)

	var ev Event
	require.NoError(t, json.Unmarshal(msg.Data, &ev))
	assert.Equal(t, ActionUpdate, ev.Action)
	assert.Equal(t, "42", ev.EntityID)
	assert.EqualValues(t, 3, ev.ActorID)
	assert.Equal(t, "req-1", ev.RequestID)
	assert.NotEmpty(t, ev.ID)
}

func TestSubscribeDecodesEvents(t *testing.T) {
	ns := runServer(t)

	pub, err := Connect(ns.ClientURL(), "audit.events")
	require.NoError(t, err)
	defer pub.Close(context.Background())

	got := make(chan Event, 1)
	sub, err := Subscribe(pub.Conn(), "audit.events", slog.Default(), func(ev Event) { got <- ev })
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.NoError(t, pub.Conn().Flush())

	require.NoError(t, pub.Conn().Publish("audit.events.cart", []byte("not json")))
	NewRecorder(pub, slog.Default()).Record(context.Background(), domain.RequestContext{UserID: 2}, ActionCreate, "cart", 11)

	select {
	case ev := <-got:
		assert.Equal(t, "cart", ev.Entity)
		assert.Equal(t, "11", ev.EntityID)
	case <-time.After(2 * time.Second):
		t.Fatal("no audit event received")
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, Event) error { return errors.New("broker down") }

func TestRecorderLogsPublishFailure(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(failingPublisher{}, slog.New(slog.NewJSONHandler(&buf, nil)))

	rec.Record(context.Background(), domain.RequestContext{UserID: 1}, ActionDelete, "cart", 9)

	assert.Contains(t, buf.String(), "audit publish failed")
	assert.Contains(t, buf.String(), "broker down")
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(LogPublisher{Log: slog.New(slog.NewJSONHandler(&buf, nil))}, slog.Default())

	rec.Record(context.Background(), domain.RequestContext{UserID: 5}, ActionCreate, "category", 1)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "audit", line["msg"])
	assert.Equal(t, "category", line["entity"])
	assert.Equal(t, "1", line["entity_id"])
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.Record(context.Background(), domain.RequestContext{}, ActionCreate, "user", 1)
}
