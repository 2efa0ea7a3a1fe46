// Package transport models a proxied connection for telemetry purposes.
//
// A Transport carries the agent and target addresses, a lifecycle status and
// upload/download byte counters. Status changes publish a snapshot and every
// counted read or write publishes a traffic record through a Publisher,
// normally the monitor.Collector. MeteredConn wraps a net.Conn so that
// counting happens as bytes move.
//
// Transports are safe for concurrent use; counters are atomic.
package transport
