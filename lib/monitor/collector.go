package monitor

import (
	"errors"

	"github.com/ppaass/ppaass/lib/util/logger"
	"github.com/sirupsen/logrus"
)

var log = logger.GetPpaassLogger()

// Collector publishes transport telemetry on the proxy hot path. Publishing
// never blocks and never fails from the caller's point of view: a record
// that cannot be queued is logged and dropped. Drops are logged with
// Report so warn-fail mode cannot turn them into exits.
//
// A Collector is safe for concurrent use by any number of transports.
type Collector struct {
	snapshots *Channel[TransportSnapshot]
	traffic   *Channel[TransportTraffic]
}

func NewCollector(snapshots *Channel[TransportSnapshot], traffic *Channel[TransportTraffic]) *Collector {
	return &Collector{
		snapshots: snapshots,
		traffic:   traffic,
	}
}

// PublishSnapshot snapshots t and offers it to the snapshot channel.
func (c *Collector) PublishSnapshot(t Transport) {
	snapshot := TakeSnapshot(t)
	err := c.snapshots.TrySend(snapshot)
	if err == nil {
		return
	}
	entry := log.WithFields(snapshot.fields()).WithField("at", "(Collector) PublishSnapshot")
	switch {
	case errors.Is(err, ErrChannelFull):
		entry.WithField("reason", "channel_full").
			Report(logrus.ErrorLevel, "failed to publish transport snapshot: channel is full")
	case errors.Is(err, ErrChannelClosed):
		entry.WithField("reason", "channel_closed").
			Report(logrus.ErrorLevel, "failed to publish transport snapshot: channel is closed")
	}
}

// PublishTraffic offers a traffic record to the traffic channel.
func (c *Collector) PublishTraffic(transportID string, trafficType TrafficType, bytes uint64) {
	traffic := NewTransportTraffic(transportID, trafficType, bytes)
	err := c.traffic.TrySend(traffic)
	if err == nil {
		return
	}
	entry := log.WithFields(traffic.fields()).WithField("at", "(Collector) PublishTraffic")
	switch {
	case errors.Is(err, ErrChannelFull):
		entry.WithField("reason", "channel_full").
			Report(logrus.ErrorLevel, "failed to publish transport traffic: channel is full")
	case errors.Is(err, ErrChannelClosed):
		entry.WithField("reason", "channel_closed").
			Report(logrus.ErrorLevel, "failed to publish transport traffic: channel is closed")
	}
}
