package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Manager decouples request-path auditing from the trail's disk writes.
// Entries are aggregated into batches and drained into the trail by
// worker goroutines; core operations that need their audit record on
// disk before returning use the Trail directly instead.
type Manager struct {
	trail       *Trail
	workerCount int
	batchSize   int
	timeout     time.Duration
	log         *zap.Logger

	inputChan  chan Entry
	batchChan  chan []Entry
	shutdownCh chan struct{}
	once       sync.Once
	wg         sync.WaitGroup
}

func NewManager(trail *Trail, workerCount, batchSize int, timeout time.Duration, log *zap.Logger) *Manager {
	return &Manager{
		trail:       trail,
		workerCount: workerCount,
		batchSize:   batchSize,
		timeout:     timeout,
		log:         log,
		inputChan:   make(chan Entry, workerCount*batchSize*2),
		batchChan:   make(chan []Entry, workerCount*2),
		shutdownCh:  make(chan struct{}),
	}
}

// Start launches the aggregator and workers. They exit when the
// context is cancelled or Shutdown is called.
func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	go m.runAggregator(ctx)

	for i := 0; i < m.workerCount; i++ {
		m.wg.Add(1)
		go m.runWorker(ctx, i)
	}
}

// Log queues an entry for asynchronous recording. When the context is
// already cancelled the entry is written synchronously so shutdown
// never loses it.
func (m *Manager) Log(ctx context.Context, entry Entry) {
	select {
	case m.inputChan <- entry:
	case <-ctx.Done():
		m.trail.Append(entry)
	}
}

// Shutdown flushes pending batches and waits for the workers, bounded
// by the context deadline.
func (m *Manager) Shutdown(ctx context.Context) {
	m.once.Do(func() {
		close(m.shutdownCh)

		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			m.log.Info("audit manager stopped")
		case <-ctx.Done():
			m.log.Warn("audit manager shutdown interrupted", zap.Error(ctx.Err()))
		}
	})
}

func (m *Manager) runAggregator(ctx context.Context) {
	defer m.wg.Done()

	var (
		batch    []Entry
		timer    *time.Timer
		timeoutC <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
		if len(batch) > 0 {
			m.dispatchBatch(batch)
		}
		close(m.batchChan)
	}()

	for {
		select {
		case entry := <-m.inputChan:
			batch = append(batch, entry)
			if len(batch) >= m.batchSize {
				m.dispatchBatch(batch)
				batch = nil
				timeoutC = nil
			} else if len(batch) == 1 {
				timer = time.NewTimer(m.timeout)
				timeoutC = timer.C
			}

		case <-timeoutC:
			m.dispatchBatch(batch)
			batch = nil
			timeoutC = nil

		case <-ctx.Done():
			return

		case <-m.shutdownCh:
			// Pull entries already queued so the final flush covers
			// them.
			for {
				select {
				case entry := <-m.inputChan:
					batch = append(batch, entry)
				default:
					return
				}
			}
		}
	}
}

func (m *Manager) dispatchBatch(batch []Entry) {
	batchCopy := make([]Entry, len(batch))
	copy(batchCopy, batch)

	select {
	case m.batchChan <- batchCopy:
	default:
		// Workers are behind; write inline rather than dropping.
		m.writeBatch(batchCopy)
	}
}

func (m *Manager) runWorker(ctx context.Context, id int) {
	defer m.wg.Done()

	for {
		select {
		case batch, ok := <-m.batchChan:
			if !ok {
				return
			}
			m.writeBatch(batch)
		case <-ctx.Done():
			// Drain whatever is already queued before exiting.
			for {
				select {
				case batch, ok := <-m.batchChan:
					if !ok {
						return
					}
					m.writeBatch(batch)
				default:
					m.log.Debug("audit worker exiting", zap.Int("worker", id))
					return
				}
			}
		}
	}
}

func (m *Manager) writeBatch(batch []Entry) {
	for _, entry := range batch {
		m.trail.Append(entry)
	}
}
