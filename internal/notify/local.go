package notify

import (
	"container/heap"
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidFireTime = errors.New("notify: invalid fire time")
	ErrEmptyID         = errors.New("notify: empty request id")
	ErrStopped         = errors.New("notify: notifier stopped")
)

type queueItem struct {
	req Request
	gen uint64
}

type fireQueue []queueItem

func (q fireQueue) Len() int { return len(q) }

func (q fireQueue) Less(i, j int) bool {
	return q[i].req.FireAt.Before(q[j].req.FireAt)
}

func (q fireQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *fireQueue) Push(x any) {
	*q = append(*q, x.(queueItem))
}

func (q *fireQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// LocalNotifier fires scheduled requests from an in-process timer loop.
// Pending requests are keyed by id; re-scheduling an id supersedes its
// queued entry, and cancelled entries are skipped lazily when they surface
// at the head of the queue.
type LocalNotifier struct {
	mu      sync.Mutex
	queue   fireQueue
	pending map[string]uint64
	nextGen uint64
	out     chan Delivery
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
	policy  Policy
	sender  Sender
}

// Sender forwards a delivery out of process (desktop notification daemon).
type Sender interface {
	Send(Delivery) error
	Available() bool
}

type Option func(*LocalNotifier)

func WithPolicy(p Policy) Option {
	return func(n *LocalNotifier) { n.policy = p }
}

func WithSender(s Sender) Option {
	return func(n *LocalNotifier) { n.sender = s }
}

func NewLocalNotifier(bufferSize int, opts ...Option) *LocalNotifier {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	n := &LocalNotifier{
		queue:   make(fireQueue, 0),
		pending: make(map[string]uint64),
		out:     make(chan Delivery, bufferSize),
		wakeup:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		policy:  FullPresentation,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// C emits fired deliveries for in-app presentation. The channel closes on
// Stop.
func (n *LocalNotifier) C() <-chan Delivery {
	return n.out
}

func (n *LocalNotifier) Start() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.started {
		return
	}
	n.started = true
	heap.Init(&n.queue)
	go n.loop()
}

func (n *LocalNotifier) Stop() {
	n.mu.Lock()
	if !n.started || n.stopped {
		n.mu.Unlock()
		return
	}
	n.stopped = true
	close(n.stopCh)
	n.mu.Unlock()
	<-n.doneCh
}

// RequestPermission reports whether out-of-process delivery is available.
// In-app delivery needs no permission, so a missing sender still grants.
func (n *LocalNotifier) RequestPermission(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if n.sender == nil {
		return true, nil
	}
	return n.sender.Available(), nil
}

func (n *LocalNotifier) ScheduleAt(req Request) error {
	if req.ID == "" {
		return ErrEmptyID
	}
	if req.FireAt.IsZero() {
		return ErrInvalidFireTime
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stopped {
		return ErrStopped
	}

	n.nextGen++
	n.pending[req.ID] = n.nextGen
	heap.Push(&n.queue, queueItem{req: req, gen: n.nextGen})
	n.signalWakeup()
	return nil
}

func (n *LocalNotifier) Cancel(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.pending, id)
}

func (n *LocalNotifier) ListPending() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	ids := make([]string, 0, len(n.pending))
	for id := range n.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Dropped counts deliveries discarded because the consumer lagged.
func (n *LocalNotifier) Dropped() uint64 {
	return atomic.LoadUint64(&n.dropped)
}

func (n *LocalNotifier) loop() {
	defer close(n.doneCh)
	defer close(n.out)

	var timer *time.Timer
	for {
		next, hasNext := n.peek()
		if !hasNext {
			select {
			case <-n.wakeup:
				continue
			case <-n.stopCh:
				return
			}
		}

		wait := time.Until(next.FireAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := n.popDue(time.Now())
			for _, req := range due {
				n.deliver(req)
			}
		case <-n.wakeup:
			continue
		case <-n.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (n *LocalNotifier) deliver(req Request) {
	d := Delivery{Request: req, DeliveredAt: time.Now()}
	pres := FullPresentation(d)
	if n.policy != nil {
		pres = n.policy(d)
	}
	d.Presentation = pres
	if n.sender != nil && pres.Banner {
		// Delivery is best effort; a failed send never propagates.
		_ = n.sender.Send(d)
	}
	select {
	case n.out <- d:
	default:
		atomic.AddUint64(&n.dropped, 1)
	}
}

func (n *LocalNotifier) signalWakeup() {
	select {
	case n.wakeup <- struct{}{}:
	default:
	}
}

// peek skips queue entries that were cancelled or superseded.
func (n *LocalNotifier) peek() (Request, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for len(n.queue) > 0 {
		head := n.queue[0]
		if n.pending[head.req.ID] == head.gen {
			return head.req, true
		}
		heap.Pop(&n.queue)
	}
	return Request{}, false
}

func (n *LocalNotifier) popDue(now time.Time) []Request {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Request, 0)
	for len(n.queue) > 0 {
		head := n.queue[0]
		if n.pending[head.req.ID] != head.gen {
			heap.Pop(&n.queue)
			continue
		}
		if head.req.FireAt.After(now) {
			break
		}
		heap.Pop(&n.queue)
		delete(n.pending, head.req.ID)
		out = append(out, head.req)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
