package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"rental-listings-importer/utils"
)

const ImportCompletedSubject = "rental_listings.imported"

// ImportSummary is the payload published after every completed import run.
type ImportSummary struct {
	RunID          string    `json:"run_id"`
	Outcome        string    `json:"outcome"`
	TotalRows      int       `json:"total_rows"`
	ProcessedCount int       `json:"processed_count"`
	ErrorCount     int       `json:"error_count"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Publisher sends import events to NATS.
type Publisher struct {
	nc     *nats.Conn
	logger *utils.Logger
}

// NewPublisher connects to the NATS server at url.
func NewPublisher(url string, logger *utils.Logger) (*Publisher, error) {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	opts := []nats.Option{
		nats.Name("rental-listings-importer"),
		nats.Timeout(5 * time.Second),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("[nats] Connection closed")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("[nats] Reconnected to %s", nc.ConnectedUrl())
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("[nats] Disconnected: %v", err)
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats: connect %s: %w", url, err)
	}
	logger.Info("[nats] Connected to %s", nc.ConnectedUrl())

	return &Publisher{nc: nc, logger: logger}, nil
}

func encodeSummary(s ImportSummary) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("nats: marshal %s: %w", ImportCompletedSubject, err)
	}
	return data, nil
}

// PublishImportCompleted publishes s on ImportCompletedSubject.
func (p *Publisher) PublishImportCompleted(ctx context.Context, s ImportSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeSummary(s)
	if err != nil {
		return err
	}

	if err := p.nc.Publish(ImportCompletedSubject, data); err != nil {
		return fmt.Errorf("nats: publish %s: %w", ImportCompletedSubject, err)
	}
	p.logger.Debug("[nats] Published %s for run %s", ImportCompletedSubject, s.RunID)
	return nil
}

// Close drains pending messages and closes the connection.
func (p *Publisher) Close() error {
	return p.nc.Drain()
}
