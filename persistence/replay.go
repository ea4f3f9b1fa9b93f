package persistence

import (
	"bufio"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mineubob/wildfiresim/action"
)

// ReplayMetadata is the replay file's header document: enough to verify a
// replay was recorded against a compatible build before trusting its
// determinism (seed, tick rate, quality, terrain digest). RunID is a
// caller-assigned identifier (conventionally uuid.NewString(), the way the
// asset server mints an AssetId) used to correlate a replay file with
// external logs or a persisted world file from the same run.
type ReplayMetadata struct {
	RunID         string  `yaml:"run_id"`
	Seed          int64   `yaml:"seed"`
	TickRate      float64 `yaml:"tick_rate"`
	Quality       int     `yaml:"quality"`
	TerrainDigest string  `yaml:"terrain_digest"`
}

// ElementSnapshot is one fuel element captured at reduced fidelity for a
// replay snapshot — enough to redraw or sanity-check divergence, not
// enough to reconstruct the full Element state.
type ElementSnapshot struct {
	ID          uint32  `yaml:"id"`
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	Z           float64 `yaml:"z"`
	Temperature float64 `yaml:"temperature"`
	Ignited     bool    `yaml:"ignited"`
}

// Snapshot is an optional, periodic full-state capture within a replay
// tick, used to detect desync against a live simulation without having to
// replay from tick zero. Field width/height let a reader reshape Phi/
// Temperature without consulting the backend that produced them.
type Snapshot struct {
	Width       int               `yaml:"width"`
	Height      int               `yaml:"height"`
	Phi         []float32         `yaml:"phi"`
	Temperature []float32         `yaml:"temperature"`
	Elements    []ElementSnapshot `yaml:"elements"`
}

// Tick is one recorded simulation step: the actions the driver actually
// executed that step (not merely submitted — a late action can roll to a
// later tick), and an optional full-state Snapshot.
type Tick struct {
	T        float64         `yaml:"t"`
	Actions  []action.Action `yaml:"actions"`
	Snapshot *Snapshot       `yaml:"snapshot,omitempty"`
}

// Writer appends a replay's metadata header followed by a stream of Tick
// documents, each as its own "---"-delimited YAML document so a reader can
// decode ticks one at a time without holding the whole replay in memory.
type Writer struct {
	enc *yaml.Encoder
}

// NewWriter wraps w and immediately writes the metadata header document.
func NewWriter(w io.Writer, meta ReplayMetadata) (*Writer, error) {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(meta); err != nil {
		return nil, fmt.Errorf("persistence: write replay metadata: %w", err)
	}
	return &Writer{enc: enc}, nil
}

// WriteTick appends one tick document.
func (rw *Writer) WriteTick(t Tick) error {
	if err := rw.enc.Encode(t); err != nil {
		return fmt.Errorf("persistence: write replay tick: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying encoder.
func (rw *Writer) Close() error {
	return rw.enc.Close()
}

// Reader decodes a replay file written by Writer, one document at a time.
type Reader struct {
	dec  *yaml.Decoder
	Meta ReplayMetadata
}

// NewReader wraps r and decodes the metadata header immediately.
func NewReader(r io.Reader) (*Reader, error) {
	dec := yaml.NewDecoder(bufio.NewReader(r))
	var meta ReplayMetadata
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("persistence: read replay metadata: %w", err)
	}
	return &Reader{dec: dec, Meta: meta}, nil
}

// NextTick decodes the next tick document, returning io.EOF once the
// stream is exhausted.
func (rr *Reader) NextTick() (Tick, error) {
	var t Tick
	if err := rr.dec.Decode(&t); err != nil {
		if err == io.EOF {
			return Tick{}, io.EOF
		}
		return Tick{}, fmt.Errorf("persistence: read replay tick: %w", err)
	}
	return t, nil
}
