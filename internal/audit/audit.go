// Package audit emits a record for every state change made through the API.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"shopadmin/internal/domain"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type Event struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entityId"`
	ActorID   uint      `json:"actorId"`
	RequestID string    `json:"requestId,omitempty"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NATSPublisher sends events as JSON on a core NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

func Connect(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("shopadmin-audit"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return NewNATSPublisher(nc, subject), nil
}

func NewNATSPublisher(nc *nats.Conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: nc, subject: subject}
}

func (p *NATSPublisher) Publish(_ context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	return p.conn.Publish(p.subject+"."+ev.Entity, data)
}

// Close flushes pending events and closes the connection.
func (p *NATSPublisher) Close(ctx context.Context) error {
	if err := p.conn.FlushWithContext(ctx); err != nil {
		p.conn.Close()
		return err
	}
	p.conn.Close()
	return nil
}

// Conn exposes the connection for subscribers sharing it.
func (p *NATSPublisher) Conn() *nats.Conn { return p.conn }

// Subscribe decodes every event published under subject and hands it to fn.
// Undecodable messages are logged and dropped.
func Subscribe(nc *nats.Conn, subject string, log *slog.Logger, fn func(Event)) (*nats.Subscription, error) {
	return nc.Subscribe(subject+".>", func(msg *nats.Msg) {
		var ev Event
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			log.Warn("audit event dropped", "subject", msg.Subject, "error", err)
			return
		}
		fn(ev)
	})
}

// LogPublisher writes events to the log when no broker is configured.
type LogPublisher struct {
	Log *slog.Logger
}

func (p LogPublisher) Publish(_ context.Context, ev Event) error {
	p.Log.Info("audit",
		"audit_id", ev.ID,
		"action", ev.Action,
		"entity", ev.Entity,
		"entity_id", ev.EntityID,
		"actor_id", ev.ActorID,
		"request_id", ev.RequestID,
	)
	return nil
}

// Recorder stamps events and hands them to a publisher. Failures never reach the caller.
type Recorder struct {
	pub Publisher
	log *slog.Logger
	now func() time.Time
}

func NewRecorder(pub Publisher, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{pub: pub, log: log, now: time.Now}
}

func (r *Recorder) Record(ctx context.Context, rc domain.RequestContext, action, entity string, entityID uint) {
	if r == nil || r.pub == nil {
		return
	}
	ev := Event{
		ID:        uuid.NewString(),
		Action:    action,
		Entity:    entity,
		EntityID:  strconv.FormatUint(uint64(entityID), 10),
		ActorID:   rc.UserID,
		RequestID: rc.RequestID,
		At:        r.now().UTC(),
	}
	if err := r.pub.Publish(ctx, ev); err != nil {
		r.log.Warn("audit publish failed",
			"error", err,
			"action", action,
			"entity", entity,
			"entity_id", ev.EntityID,
			"request_id", rc.RequestID,
		)
	}
}
