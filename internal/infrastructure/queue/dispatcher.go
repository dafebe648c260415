package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/amrutam/booking-system/internal/api/metrics"
	"github.com/amrutam/booking-system/internal/core/service"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ConfirmationSender delivers a single confirmation mail.
type ConfirmationSender interface {
	SendConfirmation(email, patientName string, startTime time.Time, mode string) error
}

// Dispatcher routes confirmation notices to a fixed set of workers using
// consistent hashing on the recipient address, guaranteeing per-recipient
// delivery ordering. Enqueueing happens after the booking transaction has
// committed, so a dropped notice never loses an appointment.
type Dispatcher struct {
	workers []chan service.ConfirmationNotice
	sender  ConfirmationSender
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender ConfirmationSender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan service.ConfirmationNotice, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan service.ConfirmationNotice, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a notice to the worker responsible for its recipient.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(notice service.ConfirmationNotice) {
	i := d.shardIndex(notice.Email)
	d.workers[i] <- notice
	metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps a recipient address deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan service.ConfirmationNotice) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case notice, ok := <-ch:
			if !ok {
				return
			}
			metrics.MailQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			if err := d.sender.SendConfirmation(notice.Email, notice.PatientName, notice.StartTime, notice.Mode); err != nil {
				d.log.Error().Err(err).
					Str("email", notice.Email).
					Int("worker_id", id).
					Msg("confirmation mail failed")
			}
		}
	}
}
