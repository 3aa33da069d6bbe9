package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dkhodakov/habitsync/internal/logging"
	"github.com/gorilla/websocket"
)

// WSNotifier subscribes to the feed topic over a WebSocket connection and
// forwards {"id": ...} frames as Notifications.
type WSNotifier struct {
	url    string
	log    logging.Logger
	conn   *websocket.Conn
	closed sync.Once
	mu     sync.Mutex
}

func NewWSNotifier(url string, log logging.Logger) *WSNotifier {
	return &WSNotifier{url: url, log: log}
}

func (n *WSNotifier) Subscribe(ctx context.Context) (<-chan Notification, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, n.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing feed topic: %w", err)
	}

	n.mu.Lock()
	n.conn = conn
	n.mu.Unlock()

	ch := make(chan Notification)
	go n.readLoop(ctx, conn, ch)
	return ch, nil
}

func (n *WSNotifier) readLoop(ctx context.Context, conn *websocket.Conn, ch chan<- Notification) {
	defer close(ch)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				n.log.Warn(ctx, "feed subscription closed", "err", err)
			}
			return
		}

		var note Notification
		if err := json.Unmarshal(payload, &note); err != nil {
			n.log.Warn(ctx, "malformed feed notification", "err", err)
			continue
		}
		if note.ID == "" {
			continue
		}

		select {
		case ch <- note:
		case <-ctx.Done():
			return
		}
	}
}

// Close tears down the subscription. Safe to call more than once; only the
// first call closes the connection.
func (n *WSNotifier) Close() error {
	var err error
	n.closed.Do(func() {
		n.mu.Lock()
		conn := n.conn
		n.mu.Unlock()
		if conn == nil {
			return
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err = conn.Close()
	})
	return err
}

var _ Notifier = (*WSNotifier)(nil)
