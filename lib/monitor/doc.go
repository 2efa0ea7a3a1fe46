// Package monitor reports per-transport telemetry without slowing the
// transports down.
//
// A Collector is shared by every transport. PublishSnapshot and
// PublishTraffic try to enqueue a record on a bounded Channel and return
// immediately. When the channel is full, or its receiver has been closed,
// the record is dropped and an error is logged with the record's fields.
// Nothing is retried or buffered locally, and the closed state is not
// remembered: every call tries again.
//
// The Monitor owns the receiving side. Run drains both channels into a
// Handler such as Stats.
package monitor
