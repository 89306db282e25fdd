package uwb

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Recorder appends forwarded frames to a file that a replay source can play
// back later. It is safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	file *os.File
	enc  *Encoder
}

// NewRecorder creates (or truncates) the recording at path.
func NewRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}
	enc := NewEncoder(f)
	enc.now = time.Now
	return &Recorder{file: f, enc: enc}, nil
}

// RecordEvent appends one endpoint event.
func (r *Recorder) RecordEvent(ev EndpointEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enc.EncodeEvent(ev)
}

// RecordRunning appends a running state change.
func (r *Recorder) RecordRunning(running bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enc.EncodeRunning(running)
}

// Close flushes and closes the recording.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.file.Sync(); err != nil {
		r.file.Close()
		return fmt.Errorf("sync recording: %w", err)
	}
	return r.file.Close()
}
