// Package notify delivers balance reports to a remote push gateway.
// Dispatch is fire-and-forget: the aggregation pass hands a message off and
// never waits on delivery.
package notify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	sendTimeout = 10 * time.Second
	queueSize   = 128

	// Repeated upstream-timeout alerts within this window are dropped to
	// avoid flooding recipients during a long outage.
	timeoutAlertWindow = time.Hour
	timeoutMarker      = "Operation timed out after"
)

type message struct {
	recipient string
	body      string
	title     string
}

// Notifier posts messages to the push gateway from a single sender
// goroutine fed by a channel. Send never blocks the caller.
type Notifier struct {
	endpoint string
	httpc    *http.Client
	logger   *zap.Logger
	queue    chan message
	done     chan struct{}

	mu               sync.Mutex
	lastTimeoutAlert time.Time
}

func New(endpoint string, logger *zap.Logger) *Notifier {
	n := &Notifier{
		endpoint: endpoint,
		httpc:    &http.Client{Timeout: sendTimeout},
		logger:   logger,
		queue:    make(chan message, queueSize),
		done:     make(chan struct{}),
	}

	go n.run()

	return n
}

// Send enqueues a message for asynchronous delivery. If the queue is full
// the message is dropped with a warning rather than blocking the pass.
func (n *Notifier) Send(recipient, body, title string) {
	select {
	case n.queue <- message{recipient: recipient, body: body, title: title}:
	default:
		n.logger.Warn("notification queue full, dropping message",
			zap.String("recipient", recipient), zap.String("title", title))
	}
}

// Close stops the sender after draining queued messages.
func (n *Notifier) Close() {
	close(n.queue)
	<-n.done
}

func (n *Notifier) run() {
	defer close(n.done)
	for msg := range n.queue {
		n.deliver(msg)
	}
}

func (n *Notifier) deliver(msg message) {
	if n.suppressTimeoutAlert(msg.body) {
		n.logger.Warn("suppressing repeated timeout alert", zap.String("recipient", msg.recipient))
		return
	}

	payload, err := json.Marshal(map[string]string{
		"cmd":        "sendtext",
		"touser":     msg.recipient,
		"msgcontent": msg.title + "\n" + msg.body,
	})
	if err != nil {
		n.logger.Error("failed to encode notification", zap.Error(err))
		return
	}

	resp, err := n.httpc.Post(n.endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		// Delivery failures are logged here, never surfaced to the core.
		n.logger.Error("failed to send notification",
			zap.String("recipient", msg.recipient), zap.Error(err))
		return
	}
	resp.Body.Close()

	n.logger.Info("notification sent",
		zap.String("recipient", msg.recipient),
		zap.String("title", msg.title),
		zap.Int("status", resp.StatusCode))
}

func (n *Notifier) suppressTimeoutAlert(body string) bool {
	if !strings.Contains(body, timeoutMarker) {
		return false
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if time.Since(n.lastTimeoutAlert) < timeoutAlertWindow {
		return true
	}
	n.lastTimeoutAlert = time.Now()
	return false
}
