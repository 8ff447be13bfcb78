package tippush

import (
	"context"
	"net"
	"time"

	"github.com/zordinals/zord-indexer/pkg/logger"
	"github.com/zordinals/zord-indexer/pkg/logger/slogx"
)

const (
	reconnectDelay = 5 * time.Second
	readBufferSize = 512
)

// Subscriber listens on a TCP endpoint for block-tip notifications. Any
// frame received wakes the indexing loop early; the poll timer remains the
// source of truth, so delivery is best effort.
type Subscriber struct {
	addr   string
	signal chan struct{}
}

func New(addr string) *Subscriber {
	return &Subscriber{
		addr:   addr,
		signal: make(chan struct{}, 1),
	}
}

// Signal receives a value when a notification arrives. The channel holds one
// pending signal; notifications that arrive while it is full are dropped, so
// the reader never blocks.
func (s *Subscriber) Signal() <-chan struct{} {
	return s.signal
}

// Run connects and reads until ctx is cancelled, reconnecting with a fixed
// delay on any failure.
func (s *Subscriber) Run(ctx context.Context) {
	for {
		if err := s.listen(ctx); err != nil {
			logger.DebugContext(ctx, "tip push connection lost",
				slogx.String("addr", s.addr),
				slogx.Error(err),
			)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (s *Subscriber) listen(ctx context.Context) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	logger.InfoContext(ctx, "tip push subscriber connected", slogx.String("addr", s.addr))

	buf := make([]byte, readBufferSize)
	for {
		if _, err := conn.Read(buf); err != nil {
			return err
		}
		select {
		case s.signal <- struct{}{}:
		default:
		}
	}
}
