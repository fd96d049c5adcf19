package notifier

import (
	"context"
	"sync"

	"txwatch/internal/core/logger"
	"txwatch/internal/core/models"
)

// Dispatcher decouples alert delivery from request handling. Dispatch
// enqueues and returns immediately; a single worker drains the queue and
// delivery failures are logged, never surfaced to the caller. A Dispatcher
// built with a nil Notifier accepts every call and does nothing.
type Dispatcher struct {
	notifier Notifier
	log      logger.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan models.Transaction
	wg     sync.WaitGroup
}

func NewDispatcher(n Notifier, queueSize int, log logger.Logger) *Dispatcher {
	d := &Dispatcher{notifier: n, log: log}
	if n == nil {
		return d
	}

	if queueSize <= 0 {
		queueSize = 64
	}
	d.queue = make(chan models.Transaction, queueSize)
	d.wg.Add(1)
	go d.worker()

	return d
}

// Dispatch hands tx to the delivery worker. It never blocks: when the
// queue is full the alert is dropped and logged.
func (d *Dispatcher) Dispatch(tx models.Transaction) {
	if d.queue == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- tx:
	default:
		d.log.Warn("Alert queue full, dropping notification",
			logger.StringField("transaction_id", tx.ID),
		)
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for tx := range d.queue {
		if err := d.notifier.Alert(context.Background(), tx); err != nil {
			d.log.Error("Failed to deliver fraud alert",
				logger.StringField("transaction_id", tx.ID),
				logger.StringField("user_id", tx.UserID),
				logger.ErrorField("error", err),
			)
			continue
		}
		d.log.Info("Fraud alert delivered",
			logger.StringField("transaction_id", tx.ID),
			logger.StringField("user_id", tx.UserID),
		)
	}
}

// Close stops intake and waits until queued alerts have been attempted.
// It is safe to call more than once.
func (d *Dispatcher) Close() {
	if d.queue == nil {
		return
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
