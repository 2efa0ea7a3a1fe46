package monitor

import (
	"context"
	"sync"

	"github.com/ppaass/ppaass/lib/config"
	"github.com/ppaass/ppaass/lib/util/logger"
)

// Handler consumes records drained by Monitor.Run.
type Handler interface {
	HandleSnapshot(TransportSnapshot)
	HandleTraffic(TransportTraffic)
}

// Monitor owns the receiving side of the telemetry channels.
type Monitor struct {
	snapshots *Channel[TransportSnapshot]
	traffic   *Channel[TransportTraffic]
	collector *Collector
}

func New(cfg config.MonitorConfig) *Monitor {
	log.WithFields(logger.Fields{
		"at":                    "monitor.New",
		"snapshot_channel_size": cfg.SnapshotChannelSize,
		"traffic_channel_size":  cfg.TrafficChannelSize,
	}).Debug("creating transport monitor")

	snapshots := NewChannel[TransportSnapshot](cfg.SnapshotChannelSize)
	traffic := NewChannel[TransportTraffic](cfg.TrafficChannelSize)
	return &Monitor{
		snapshots: snapshots,
		traffic:   traffic,
		collector: NewCollector(snapshots, traffic),
	}
}

// Collector returns the publisher shared by all transports.
func (m *Monitor) Collector() *Collector {
	return m.collector
}

func (m *Monitor) Snapshots() <-chan TransportSnapshot {
	return m.snapshots.C()
}

func (m *Monitor) Traffic() <-chan TransportTraffic {
	return m.traffic.C()
}

// Close shuts down both channels. Publishing keeps working but every
// record is dropped and logged.
func (m *Monitor) Close() {
	m.snapshots.Close()
	m.traffic.Close()
	log.WithField("at", "(Monitor) Close").Debug("transport monitor closed")
}

// Run hands every received record to h until ctx is done or both channels
// are closed and drained.
func (m *Monitor) Run(ctx context.Context, h Handler) error {
	snapshots := m.snapshots.C()
	traffic := m.traffic.C()
	for snapshots != nil || traffic != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-snapshots:
			if !ok {
				snapshots = nil
				continue
			}
			h.HandleSnapshot(s)
		case t, ok := <-traffic:
			if !ok {
				traffic = nil
				continue
			}
			h.HandleTraffic(t)
		}
	}
	return nil
}

// TransportStats aggregates what the monitor has seen for one transport.
type TransportStats struct {
	Uploaded     uint64
	Downloaded   uint64
	LastSnapshot *TransportSnapshot
}

// Stats is a Handler that keeps per-transport totals.
type Stats struct {
	mu         sync.Mutex
	transports map[string]*TransportStats
}

func NewStats() *Stats {
	return &Stats{transports: make(map[string]*TransportStats)}
}

func (s *Stats) HandleSnapshot(snapshot TransportSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(snapshot.TransportID).LastSnapshot = &snapshot
}

func (s *Stats) HandleTraffic(t TransportTraffic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.entry(t.TransportID)
	switch t.Type {
	case Upload:
		st.Uploaded += t.Bytes
	case Download:
		st.Downloaded += t.Bytes
	}
}

// Get returns a copy of the stats for a transport.
func (s *Stats) Get(transportID string) (TransportStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.transports[transportID]
	if !ok {
		return TransportStats{}, false
	}
	return *st, true
}

func (s *Stats) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transports)
}

func (s *Stats) entry(id string) *TransportStats {
	st, ok := s.transports[id]
	if !ok {
		st = &TransportStats{}
		s.transports[id] = st
	}
	return st
}
