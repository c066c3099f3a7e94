package audio

import (
	"context"
	"errors"
	"sync"

	"google.golang.org/api/iterator"
)

// ErrQueueFull is returned by QueueSource.Push when the queue has no
// room for another frame. Producers that must not drop audio should
// size the queue for their worst-case burst.
var ErrQueueFull = errors.New("audio: frame queue full")

// Source is a single-pass stream of audio frames.
//
// Next returns the next frame in producer order, blocking until a
// frame is available, the stream ends, or ctx expires. A clean
// end-of-stream is signaled with iterator.Done. Frames already
// consumed cannot be replayed.
type Source interface {
	Next(ctx context.Context) (Frame, error)
}

// SourceFunc is an adapter to allow the use of ordinary functions as
// frame sources.
type SourceFunc func(ctx context.Context) (Frame, error)

// Next calls the underlying function.
func (f SourceFunc) Next(ctx context.Context) (Frame, error) {
	return f(ctx)
}

// QueueSource is a push-style Source backed by a bounded queue.
// A producer goroutine calls Push for each captured frame and
// CloseWrite when the stream ends; the pipeline consumes frames with
// Next. This is the bounded-channel shape the listener's suspension
// points map onto: Next blocks until the next frame or the deadline.
type QueueSource struct {
	frames chan Frame

	mu     sync.Mutex
	closed bool
}

var _ Source = (*QueueSource)(nil)

// NewQueueSource creates a QueueSource holding at most size frames.
func NewQueueSource(size int) *QueueSource {
	if size <= 0 {
		size = 64
	}
	return &QueueSource{frames: make(chan Frame, size)}
}

// Push enqueues one frame without blocking. It returns ErrQueueFull
// when the queue is at capacity and an error when the source has been
// closed for writing.
func (q *QueueSource) Push(f Frame) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return errors.New("audio: push to closed source")
	}
	select {
	case q.frames <- f:
		return nil
	default:
		return ErrQueueFull
	}
}

// CloseWrite ends the stream. Frames already queued remain readable;
// once drained, Next returns iterator.Done.
func (q *QueueSource) CloseWrite() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.frames)
}

// Next returns the next queued frame. It blocks until a frame is
// pushed, the source is closed and drained (iterator.Done), or ctx
// expires (ctx.Err()).
func (q *QueueSource) Next(ctx context.Context) (Frame, error) {
	select {
	case f, ok := <-q.frames:
		if !ok {
			return nil, iterator.Done
		}
		return f, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SliceSource returns a Source that yields the given frames in order
// and then iterator.Done. Useful for tests and file-backed captures.
func SliceSource(frames ...Frame) Source {
	i := 0
	return SourceFunc(func(ctx context.Context) (Frame, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i >= len(frames) {
			return nil, iterator.Done
		}
		f := frames[i]
		i++
		return f, nil
	})
}
