package render

import "sync"

// Poster queues a task to run on the host's UI loop, after the current event
// has been handled.
type Poster interface {
	Post(task func())
}

// PosterFunc adapts a function to the Poster interface
type PosterFunc func(task func())

// Post implements Poster.
func (f PosterFunc) Post(task func()) {
	f(task)
}

// Inline runs posted tasks immediately. Useful for hosts without a UI loop.
type Inline struct{}

// Post implements Poster.
func (Inline) Post(task func()) {
	task()
}

// Queue collects posted tasks until the host drains them on its next tick
type Queue struct {
	mu    sync.Mutex
	tasks []func()
}

// Post implements Poster.
func (q *Queue) Post(task func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

// Len returns the number of queued tasks
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Drain runs queued tasks until the queue is empty, including tasks posted by
// the tasks themselves. It returns how many ran.
func (q *Queue) Drain() int {
	ran := 0
	for {
		q.mu.Lock()
		tasks := q.tasks
		q.tasks = nil
		q.mu.Unlock()

		if len(tasks) == 0 {
			return ran
		}
		for _, task := range tasks {
			task()
			ran++
		}
	}
}

// Scheduler coalesces render requests into a single pending commit.
// State changes happen synchronously elsewhere; Schedule only marks the view
// dirty and, if no commit is pending yet, posts one. The commit renders
// whatever the state is when it runs.
type Scheduler struct {
	mu      sync.Mutex
	poster  Poster
	commit  func()
	pending bool
	stopped bool
	waiters []chan struct{}
}

// NewScheduler creates a scheduler posting commits through poster.
// A nil poster runs commits inline.
func NewScheduler(poster Poster, commit func()) *Scheduler {
	if poster == nil {
		poster = Inline{}
	}
	return &Scheduler{
		poster: poster,
		commit: commit,
	}
}

// Schedule requests a commit and returns a channel closed once the commit
// that covers this request has finished. After Stop the channel is returned
// already closed.
func (s *Scheduler) Schedule() <-chan struct{} {
	done := make(chan struct{})

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		close(done)
		return done
	}
	s.waiters = append(s.waiters, done)
	needPost := !s.pending
	s.pending = true
	s.mu.Unlock()

	if needPost {
		s.poster.Post(s.flush)
	}
	return done
}

// Pending reports whether a commit is waiting to run
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Stop drops any pending commit and releases its waiters.
// Later Schedule calls are no-ops.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.pending = false
	waiters := s.waiters
	s.waiters = nil
	s.mu.Unlock()

	for _, w := range waiters {
		close(w)
	}
}

func (s *Scheduler) flush() {
	s.mu.Lock()
	if s.stopped || !s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = false
	waiters := s.waiters
	s.waiters = nil
	s.mu.Unlock()

	if s.commit != nil {
		s.commit()
	}
	for _, w := range waiters {
		close(w)
	}
}
