package macro

import (
	"sync"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/vim"
)

// Recorder collects the strokes typed while a macro is being recorded.
type Recorder struct {
	mu        sync.Mutex
	recording bool
	register  rune
	strokes   []key.Stroke
	onChange  func(recording bool, register rune)
}

// NewRecorder creates an idle recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnChange sets a callback run when recording starts or stops.
func (r *Recorder) OnChange(fn func(recording bool, register rune)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// IsRecordable reports whether a macro can be recorded into register.
func IsRecordable(register rune) bool {
	switch {
	case register >= 'a' && register <= 'z',
		register >= 'A' && register <= 'Z',
		register >= '0' && register <= '9',
		register == vim.RegisterUnnamed:
		return true
	}
	return false
}

// Start begins recording into register.
func (r *Recorder) Start(register rune) error {
	if !IsRecordable(register) {
		return vim.Errorf("%w: %c", vim.ErrInvalidRegister, register)
	}
	r.mu.Lock()
	if r.recording {
		r.mu.Unlock()
		return vim.Errorf("already recording into %c", r.register)
	}
	r.recording = true
	r.register = register
	r.strokes = nil
	fn := r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn(true, register)
	}
	return nil
}

// Stop ends the recording and returns its register and strokes. ok is
// false when nothing was being recorded.
func (r *Recorder) Stop() (register rune, strokes []key.Stroke, ok bool) {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return 0, nil, false
	}
	register, strokes = r.register, r.strokes
	r.recording = false
	r.strokes = nil
	fn := r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn(false, register)
	}
	return register, strokes, true
}

// Record adds a stroke to the recording. Virtual strokes are produced by
// mappings and playback of what was typed, so only typed ones are kept.
func (r *Recorder) Record(s key.Stroke) {
	if s.Virtual {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		r.strokes = append(r.strokes, s)
	}
}

// IsRecording reports whether a recording is in progress.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Register returns the register being recorded into, or 0.
func (r *Recorder) Register() rune {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return 0
	}
	return r.register
}
