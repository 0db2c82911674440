package tui

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type jobKind string

type jobStatus string

const (
	jobKindExtract   jobKind = "extract"
	jobKindAnswer    jobKind = "answer"
	jobKindClipboard jobKind = "clipboard"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

type jobBus struct {
	counter int64
}

func newJobBus() *jobBus {
	return &jobBus{}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

// Start emits a running snapshot, then runs runner and wraps its payload with
// the final snapshot.
func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	id := b.nextID(kind)
	started := time.Now()
	startSnapshot := jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		return jobSignalMsg{Snapshot: startSnapshot}
	}

	runCmd := func() tea.Msg {
		ctx := context.Background()
		payload, err := runner(ctx)
		snapshot := jobSnapshot{
			ID:          id,
			Kind:        kind,
			StartedAt:   started,
			CompletedAt: time.Now(),
		}
		if err != nil {
			snapshot.Status = jobStatusFailed
			snapshot.Err = err.Error()
		} else {
			snapshot.Status = jobStatusSucceeded
		}
		snapshot.Duration = snapshot.CompletedAt.Sub(started)
		log.Printf("[jobs] %s %s (duration=%s, err=%v)", kind, snapshot.Status, snapshot.Duration, err)
		return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
	}

	return tea.Sequence(startCmd, runCmd)
}

func (m *model) recordJob(snapshot jobSnapshot) {
	m.jobs[snapshot.Kind] = snapshot
}

func (m *model) jobStatusBadges() []string {
	kinds := make([]string, 0, len(m.jobs))
	for kind := range m.jobs {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	var badges []string
	for _, kind := range kinds {
		snap := m.jobs[jobKind(kind)]
		switch snap.Status {
		case jobStatusRunning:
			badges = append(badges, fmt.Sprintf("%s…", kind))
		case jobStatusFailed:
			badges = append(badges, fmt.Sprintf("%s failed", kind))
		}
	}
	return badges
}
