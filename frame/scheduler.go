package frame

// Scheduler runs tick once per refresh between Start and Stop. It owns the
// frame counter. All methods must be called from the goroutine that runs
// the requester's callbacks.
type Scheduler struct {
	frames  Requester
	tick    func(frame uint64)
	frame   uint64
	running bool
	pending bool
	cancel  func()
	starts  int
	stops   int
}

func NewScheduler(frames Requester, tick func(frame uint64)) *Scheduler {
	return &Scheduler{frames: frames, tick: tick}
}

// Start begins requesting frames. No-op while running.
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.starts++
	if !s.pending {
		s.request()
	}
}

// Stop cancels the pending frame. No tick fires after Stop returns.
// No-op while stopped.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.stops++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.pending = false
}

func (s *Scheduler) Running() bool { return s.running }

// Frame is the number of ticks run so far.
func (s *Scheduler) Frame() uint64 { return s.frame }

// Starts and Stops count effective (non no-op) calls.
func (s *Scheduler) Starts() int { return s.starts }
func (s *Scheduler) Stops() int  { return s.stops }

func (s *Scheduler) request() {
	s.pending = true
	s.cancel = s.frames.RequestFrame(s.onFrame)
}

func (s *Scheduler) onFrame() {
	s.pending = false
	s.cancel = nil
	if !s.running {
		return
	}
	s.frame++
	s.tick(s.frame)
	// tick may have stopped, or stopped and restarted, the loop
	if s.running && !s.pending {
		s.request()
	}
}
