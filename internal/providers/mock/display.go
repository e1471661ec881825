package mock

import (
	"sync"

	"github.com/inherent-design/empack/internal/providers"
)

// DisplayProvider is a mock providers.DisplayProvider that records every
// status/progress message instead of writing to a terminal, so tests can
// assert a warning was surfaced (Testable Property 7) without capturing
// stderr.
type DisplayProvider struct {
	mu       sync.Mutex
	messages []string
	warnings []string
}

// NewDisplayProvider builds a recording display provider.
func NewDisplayProvider() *DisplayProvider {
	return &DisplayProvider{}
}

var _ providers.DisplayProvider = (*DisplayProvider)(nil)

func (d *DisplayProvider) Status() providers.StatusHandle {
	return &mockStatusHandle{parent: d}
}

func (d *DisplayProvider) Progress() providers.ProgressHandle {
	return &mockProgressHandle{}
}

// Warnings returns every message passed to Warn across every status handle
// this provider has issued, in order.
func (d *DisplayProvider) Warnings() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.warnings))
	copy(out, d.warnings)
	return out
}

// Messages returns every Update/Done message, in order.
func (d *DisplayProvider) Messages() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.messages))
	copy(out, d.messages)
	return out
}

type mockStatusHandle struct {
	parent *DisplayProvider
}

func (h *mockStatusHandle) Update(message string) {
	h.parent.mu.Lock()
	defer h.parent.mu.Unlock()
	h.parent.messages = append(h.parent.messages, message)
}

func (h *mockStatusHandle) Warn(message string) {
	h.parent.mu.Lock()
	defer h.parent.mu.Unlock()
	h.parent.warnings = append(h.parent.warnings, message)
}

func (h *mockStatusHandle) Done(message string) {
	h.parent.mu.Lock()
	defer h.parent.mu.Unlock()
	h.parent.messages = append(h.parent.messages, message)
}

type mockProgressHandle struct {
	total, current int64
}

func (h *mockProgressHandle) SetTotal(total int64) { h.total = total }
func (h *mockProgressHandle) Add(delta int64)      { h.current += delta }
func (h *mockProgressHandle) Finish()              {}
