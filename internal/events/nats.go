package events

import (
	"time"

	"github.com/nats-io/nats.go"

	"github.com/salumastake-code/numble-go/pkg/common/logger"
)

type natsEmitter struct {
	conn          *nats.Conn
	subjectPrefix string
}

// Connect opens a NATS connection with reconnect handling and returns
// an emitter publishing under subjectPrefix.
func Connect(url, subjectPrefix string) (Emitter, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1), // retry forever
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectHandler(func(nc *nats.Conn) {
			logger.Warn("Disconnected from NATS")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	if url == "" {
		url = nats.DefaultURL
	}
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &natsEmitter{conn: conn, subjectPrefix: subjectPrefix}, nil
}

func (e *natsEmitter) EmitSettlement(s Settlement) error {
	return e.publish(TypeSettlement, newEvent(TypeSettlement, s))
}

func (e *natsEmitter) EmitOutcome(o SpinOutcome) error {
	return e.publish(TypeOutcome, newEvent(TypeOutcome, o))
}

func (e *natsEmitter) EmitReveal(drawID, tier string) error {
	return e.publish(TypeReveal, newEvent(TypeReveal, map[string]string{
		"draw_id": drawID,
		"tier":    tier,
	}))
}

func (e *natsEmitter) publish(t Type, event Event) error {
	data, err := marshal(event)
	if err != nil {
		return err
	}
	return e.conn.Publish(e.subjectPrefix+"."+string(t), data)
}

func (e *natsEmitter) Close() {
	e.conn.Drain()
}
