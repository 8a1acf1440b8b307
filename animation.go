package driftwood

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// TimeSource supplies the current time in seconds. The renderer's default is
// the wall clock; tests inject a fixed or stepped source.
type TimeSource func() float64

// WallClock is the default TimeSource.
func WallClock() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// AnimationFrame is a single frame in an animated tile sequence.
type AnimationFrame struct {
	Image    *ebiten.Image
	Duration float64 // seconds
	// SpeedMultiplier scales this frame's duration on top of the token's
	// global multiplier. Zero means 1.
	SpeedMultiplier float64
}

// TokenOptions configures a new AnimationToken.
type TokenOptions struct {
	// Loop restarts the sequence when it completes. Non-looping tokens
	// enter a terminal done state at the last frame.
	Loop bool
	// PingPong reverses direction at either end instead of wrapping.
	PingPong bool
	// SpeedMultiplier scales all frame durations. Zero means 1.
	SpeedMultiplier float64
	// RandomJitter adds a one-time random delay in [0, RandomJitter) to the
	// first transition, desynchronizing visually identical tokens.
	RandomJitter float64
	// InitialTime offsets the first transition to the scheduler's current
	// virtual time.
	InitialTime float64
}

// AnimationToken is one scheduled animation timeline, shared by every map
// position that uses the same animated tile GID. Tokens are ordered by their
// next transition time in the scheduler's priority queue.
type AnimationToken struct {
	positions map[TileAddress]struct{}
	frames    []AnimationFrame
	index     int
	next      float64
	loop      bool
	pingPong  bool
	direction int
	done      bool
	speed     float64
}

// NewAnimationToken creates a token for the given frame sequence. An empty
// sequence is an error.
func NewAnimationToken(frames []AnimationFrame, opts TokenOptions) (*AnimationToken, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("animation token: %w: frames must not be empty", ErrInvalidArgument)
	}
	speed := opts.SpeedMultiplier
	if speed <= 0 {
		speed = 1
	}
	t := &AnimationToken{
		positions: make(map[TileAddress]struct{}),
		frames:    append([]AnimationFrame(nil), frames...),
		direction: 1,
		loop:      opts.Loop,
		pingPong:  opts.PingPong,
		speed:     speed,
	}
	t.next = opts.InitialTime + t.frameDuration(0)
	if opts.RandomJitter > 0 {
		t.next += rand.Float64() * opts.RandomJitter
	}
	return t, nil
}

// frameDuration returns frame i's duration scaled by the combined speed
// multiplier. A non-positive combined multiplier falls back to the unscaled
// duration.
func (t *AnimationToken) frameDuration(i int) float64 {
	f := t.frames[i]
	mult := t.speed
	if f.SpeedMultiplier != 0 {
		mult *= f.SpeedMultiplier
	}
	if mult <= 0 {
		return f.Duration
	}
	return f.Duration / mult
}

// Index returns the current frame index.
func (t *AnimationToken) Index() int { return t.index }

// Next returns the absolute time of the next frame transition.
func (t *AnimationToken) Next() float64 { return t.next }

// Done reports whether a non-looping token has completed.
func (t *AnimationToken) Done() bool { return t.done }

// Frame returns the currently displayed frame.
func (t *AnimationToken) Frame() AnimationFrame { return t.frames[t.index] }

// Advance moves the token to its next frame and schedules the following
// transition relative to now. Done tokens return the current frame without
// any state change.
func (t *AnimationToken) Advance(now float64) AnimationFrame {
	if t.done {
		return t.frames[t.index]
	}

	last := len(t.frames) - 1
	if t.pingPong && last > 0 {
		if t.direction > 0 && t.index == last {
			t.direction = -1
		} else if t.direction < 0 && t.index == 0 {
			t.direction = 1
		}
		t.index += t.direction
		if !t.loop && t.direction < 0 && t.index == 0 {
			t.done = true
		}
	} else {
		if t.index == last {
			if t.loop {
				t.index = 0
			} else {
				t.done = true
			}
		} else {
			t.index++
		}
	}

	t.next = now + t.frameDuration(t.index)
	return t.frames[t.index]
}

// Update advances the token through every transition due by current,
// decrementing by elapsed per step as the scheduler's virtual clock does.
// The loop is capped at 4x the frame count to bound worst-case work when
// elapsed dwarfs the frame durations.
func (t *AnimationToken) Update(current, elapsed float64) AnimationFrame {
	if t.done {
		return t.frames[t.index]
	}
	limit := 4 * len(t.frames)
	for i := 0; current >= t.next && i < limit; i++ {
		t.Advance(t.next)
		current -= elapsed
		if t.done {
			break
		}
	}
	return t.frames[t.index]
}

// ResumeMode selects how the scheduler's virtual clock behaves across a
// pause/resume cycle.
type ResumeMode int

const (
	// ResumeFreeze stops the virtual clock for the duration of the pause.
	// Animations continue exactly where they left off.
	ResumeFreeze ResumeMode = iota
	// ResumeSkipAhead lets the virtual clock accumulate the paused real
	// time. Transitions that fell due during the pause are rescheduled
	// rather than replayed.
	ResumeSkipAhead
)

// Scheduler advances tile animation state over time and reports which map
// positions need to be re-composited. It owns the min-heap of tokens, the
// animated-tile side table, and the lazily populated per-token position
// sets. The renderer notifies the scheduler as tiles are queried during
// normal rendering; positions are never pre-scanned.
type Scheduler struct {
	clock TimeSource

	// queue is an explicit array-based min-heap keyed by token.next.
	// Tokens are always popped, mutated, then re-pushed; a heap-resident
	// token is never mutated in place.
	queue []*AnimationToken

	byGID    map[int]*AnimationToken
	animated map[TileAddress]*ebiten.Image

	now         float64
	pauseOffset float64
	paused      bool
	pausedAt    float64
}

// NewScheduler creates a scheduler driven by the given time source.
func NewScheduler(clock TimeSource) *Scheduler {
	if clock == nil {
		clock = WallClock
	}
	return &Scheduler{
		clock:    clock,
		byGID:    make(map[int]*AnimationToken),
		animated: make(map[TileAddress]*ebiten.Image),
	}
}

// Reload discards all animation state and rebuilds tokens from the
// adapter's metadata. Frames whose GID has no image or whose duration is
// not positive are skipped; a definition with no usable frames is dropped
// rather than failing the reload.
func (s *Scheduler) Reload(data DataAdapter) {
	s.updateTime()
	s.queue = s.queue[:0]
	s.byGID = make(map[int]*AnimationToken)
	s.animated = make(map[TileAddress]*ebiten.Image)

	for _, def := range data.Animations() {
		var frames []AnimationFrame
		for _, f := range def.Frames {
			img := data.ImageByGID(f.GID)
			if img == nil || f.DurationMS <= 0 {
				continue
			}
			frames = append(frames, AnimationFrame{
				Image:    img,
				Duration: float64(f.DurationMS) / 1000.0,
			})
		}
		if len(frames) == 0 {
			continue
		}
		token, err := NewAnimationToken(frames, TokenOptions{Loop: true, InitialTime: s.now})
		if err != nil {
			continue
		}
		s.byGID[def.GID] = token
		s.push(token)
	}
}

// HasTokens reports whether any animated tiles are loaded.
func (s *Scheduler) HasTokens() bool { return len(s.byGID) > 0 }

// Resolve is the "tile was queried" callback from the renderer. If the
// address is a known animated tile, the current animation frame is returned
// and the position is tracked on its token. The second return is false when
// the tile is not animated.
func (s *Scheduler) Resolve(addr TileAddress, gid int) (*ebiten.Image, bool) {
	if img, ok := s.animated[addr]; ok {
		return img, true
	}
	token, ok := s.byGID[gid]
	if !ok {
		return nil, false
	}
	token.positions[addr] = struct{}{}
	img := token.frames[token.index].Image
	s.animated[addr] = img
	return img, true
}

// AnimatedTile returns the current substitution for addr, if any.
func (s *Scheduler) AnimatedTile(addr TileAddress) (*ebiten.Image, bool) {
	img, ok := s.animated[addr]
	return img, ok
}

// Process advances every token due at the current virtual time and returns
// the resulting tile substitutions inside view. For each changed position
// the full column of visible layers is emitted so the buffer patch keeps
// correct layer stacking; fetch supplies the non-animated layer images.
// Positions that have scrolled out of view are evicted from their token.
func (s *Scheduler) Process(view TileRect, layers []int, fetch func(x, y, layer int) *ebiten.Image) []TileImage {
	s.updateTime()
	if s.paused {
		return nil
	}

	// Bounded like AnimationToken.Update: a zero-duration token that
	// reschedules itself to the current instant must not stall the frame.
	limit := 4 * len(s.queue)

	var out []TileImage
	for i := 0; len(s.queue) > 0 && s.queue[0].next <= s.now && i < limit; i++ {
		token := s.pop()
		frame := token.Advance(s.now)
		if !token.done {
			s.push(token)
		}

		for addr := range token.positions {
			if !view.ContainsTile(addr.X, addr.Y) {
				// Lazy cleanup: the position is re-tracked if the tile
				// scrolls back into view and is queried again.
				delete(token.positions, addr)
				delete(s.animated, addr)
				continue
			}
			s.animated[addr] = frame.Image
			for _, layer := range layers {
				if layer == addr.Layer {
					out = append(out, TileImage{X: addr.X, Y: addr.Y, Layer: layer, Image: frame.Image})
				} else if img := fetch(addr.X, addr.Y, layer); img != nil {
					out = append(out, TileImage{X: addr.X, Y: addr.Y, Layer: layer, Image: img})
				}
			}
		}
	}
	return out
}

// Pause halts the virtual clock. Calling Pause while paused is a no-op.
func (s *Scheduler) Pause() {
	if s.paused {
		return
	}
	s.paused = true
	s.pausedAt = s.clock()
}

// Resume restarts the virtual clock in the given mode. With ResumeFreeze the
// paused interval is subtracted from the clock so no time passed; with
// ResumeSkipAhead the clock jumps forward and any transition that fell due
// during the pause is rescheduled once rather than replayed.
func (s *Scheduler) Resume(mode ResumeMode) {
	if !s.paused {
		return
	}
	s.paused = false
	pauseDur := s.clock() - s.pausedAt

	switch mode {
	case ResumeFreeze:
		s.pauseOffset += pauseDur
	case ResumeSkipAhead:
		s.updateTime()
		for _, token := range s.queue {
			if token.next <= s.now {
				token.next = s.now + token.frameDuration(token.index)
			}
		}
		s.heapify()
	}
}

// Paused reports whether the scheduler is paused.
func (s *Scheduler) Paused() bool { return s.paused }

// SetSpeedMultiplier updates the global speed multiplier on every loaded
// token, including done tokens that have left the queue. It affects future
// transition scheduling only.
func (s *Scheduler) SetSpeedMultiplier(m float64) error {
	if m <= 0 {
		return fmt.Errorf("animation speed multiplier: %w: must be greater than zero", ErrInvalidArgument)
	}
	for _, token := range s.byGID {
		token.speed = m
	}
	return nil
}

// Now returns the current virtual time.
func (s *Scheduler) Now() float64 { return s.now }

func (s *Scheduler) updateTime() {
	if s.paused {
		return
	}
	s.now = s.clock() - s.pauseOffset
}

// --- min-heap on token.next ---

func (s *Scheduler) push(t *AnimationToken) {
	s.queue = append(s.queue, t)
	s.siftUp(len(s.queue) - 1)
}

func (s *Scheduler) pop() *AnimationToken {
	root := s.queue[0]
	last := len(s.queue) - 1
	s.queue[0] = s.queue[last]
	s.queue[last] = nil
	s.queue = s.queue[:last]
	if last > 0 {
		s.siftDown(0)
	}
	return root
}

func (s *Scheduler) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if s.queue[parent].next <= s.queue[i].next {
			break
		}
		s.queue[parent], s.queue[i] = s.queue[i], s.queue[parent]
		i = parent
	}
}

func (s *Scheduler) siftDown(i int) {
	n := len(s.queue)
	for {
		smallest := i
		if l := 2*i + 1; l < n && s.queue[l].next < s.queue[smallest].next {
			smallest = l
		}
		if r := 2*i + 2; r < n && s.queue[r].next < s.queue[smallest].next {
			smallest = r
		}
		if smallest == i {
			return
		}
		s.queue[i], s.queue[smallest] = s.queue[smallest], s.queue[i]
		i = smallest
	}
}

func (s *Scheduler) heapify() {
	for i := len(s.queue)/2 - 1; i >= 0; i-- {
		s.siftDown(i)
	}
}
