package transport

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ppaass/ppaass/lib/common"
	"github.com/ppaass/ppaass/lib/monitor"
	"github.com/ppaass/ppaass/lib/util/logger"
)

var log = logger.GetPpaassLogger()

// Status is the lifecycle stage of a Transport.
type Status int32

const (
	StatusInitialized Status = iota
	StatusConnected
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusInitialized:
		return "initialized"
	case StatusConnected:
		return "connected"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Publisher receives telemetry for transports. *monitor.Collector
// implements it.
type Publisher interface {
	PublishSnapshot(t monitor.Transport)
	PublishTraffic(transportID string, trafficType monitor.TrafficType, bytes uint64)
}

// Compile-time check that Transport can be snapshotted by the monitor
var _ monitor.Transport = (*Transport)(nil)

// Transport is one proxied connection between an agent and a target.
type Transport struct {
	id        string
	agent     common.Address
	target    common.Address
	createdAt time.Time

	status     atomic.Int32
	uploaded   atomic.Uint64
	downloaded atomic.Uint64

	publisher Publisher
	closeOnce sync.Once
}

// New creates a transport and publishes its initial snapshot. publisher may
// be nil, in which case nothing is reported.
func New(id string, agent, target common.Address, publisher Publisher) *Transport {
	t := &Transport{
		id:        id,
		agent:     agent,
		target:    target,
		createdAt: time.Now(),
		publisher: publisher,
	}
	log.WithFields(logger.Fields{
		"at":           "transport.New",
		"transport_id": id,
		"agent":        agent.String(),
		"target":       target.String(),
	}).Debug("transport created")
	t.publishSnapshot()
	return t
}

func (t *Transport) ID() string             { return t.id }
func (t *Transport) Agent() common.Address  { return t.agent }
func (t *Transport) Target() common.Address { return t.target }
func (t *Transport) AgentAddress() string   { return t.agent.String() }
func (t *Transport) TargetAddress() string  { return t.target.String() }
func (t *Transport) CreatedAt() time.Time   { return t.createdAt }
func (t *Transport) Uploaded() uint64       { return t.uploaded.Load() }
func (t *Transport) Downloaded() uint64     { return t.downloaded.Load() }

func (t *Transport) Status() string {
	return t.CurrentStatus().String()
}

func (t *Transport) CurrentStatus() Status {
	return Status(t.status.Load())
}

// MarkConnected moves an initialized transport to connected.
func (t *Transport) MarkConnected() {
	if t.status.CompareAndSwap(int32(StatusInitialized), int32(StatusConnected)) {
		t.publishSnapshot()
	}
}

// AddUpload records n bytes sent from the agent towards the target.
func (t *Transport) AddUpload(n int) {
	t.addTraffic(monitor.Upload, n)
}

// AddDownload records n bytes sent from the target back to the agent.
func (t *Transport) AddDownload(n int) {
	t.addTraffic(monitor.Download, n)
}

func (t *Transport) addTraffic(kind monitor.TrafficType, n int) {
	if n <= 0 {
		return
	}
	switch kind {
	case monitor.Upload:
		t.uploaded.Add(uint64(n))
	case monitor.Download:
		t.downloaded.Add(uint64(n))
	}
	if t.publisher != nil {
		t.publisher.PublishTraffic(t.id, kind, uint64(n))
	}
}

// Close marks the transport closed and publishes a final snapshot. Later
// calls do nothing.
func (t *Transport) Close() {
	t.closeOnce.Do(func() {
		t.status.Store(int32(StatusClosed))
		log.WithFields(logger.Fields{
			"at":           "(Transport) Close",
			"transport_id": t.id,
			"uploaded":     t.Uploaded(),
			"downloaded":   t.Downloaded(),
		}).Debug("transport closed")
		t.publishSnapshot()
	})
}

func (t *Transport) publishSnapshot() {
	if t.publisher != nil {
		t.publisher.PublishSnapshot(t)
	}
}
