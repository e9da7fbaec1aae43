package dependency_test

import (
	"sync"
	"time"

	"github.com/dmitrymomot/callkit/core/dependency"
)

type Rate struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Value float64 `json:"value"`
}

type GetRate struct {
	dependency.Returns[Rate]
	From string `validate:"required,len=3"`
	To   string `validate:"required,len=3"`
}

func (GetRate) Kind() dependency.Kind { return "fx.get_rate" }

// ForgedRate shares GetRate's kind but is a different Go type.
type ForgedRate struct {
	dependency.Returns[Rate]
}

func (ForgedRate) Kind() dependency.Kind { return "fx.get_rate" }

type Ping struct {
	dependency.Returns[string]
}

func (Ping) Kind() dependency.Kind { return "test.ping" }

type record struct {
	outcome string
	kind    dependency.Kind
	err     error
}

// recordingMetrics captures every record for assertions.
type recordingMetrics struct {
	mu      sync.Mutex
	records []record
}

func (m *recordingMetrics) Succeeded(kind dependency.Kind, _ time.Duration) {
	m.add(record{outcome: "succeeded", kind: kind})
}

func (m *recordingMetrics) Failed(kind dependency.Kind, err error, _ time.Duration) {
	m.add(record{outcome: "failed", kind: kind, err: err})
}

func (m *recordingMetrics) Fallback(kind dependency.Kind, _ time.Duration) {
	m.add(record{outcome: "fallback", kind: kind})
}

func (m *recordingMetrics) add(r record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
}

func (m *recordingMetrics) all() []record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]record(nil), m.records...)
}

func (m *recordingMetrics) outcomes() []string {
	var out []string
	for _, r := range m.all() {
		out = append(out, r.outcome)
	}
	return out
}
