package monitor

import (
	"strconv"
	"time"

	"github.com/ppaass/ppaass/lib/util/logger"
)

// TrafficType is the direction of bytes moved through a transport.
type TrafficType int

const (
	Upload TrafficType = iota
	Download
)

func (t TrafficType) String() string {
	switch t {
	case Upload:
		return "upload"
	case Download:
		return "download"
	default:
		return "TrafficType(" + strconv.Itoa(int(t)) + ")"
	}
}

// Transport is the view of a proxied connection needed to snapshot it.
type Transport interface {
	ID() string
	Status() string
	AgentAddress() string
	TargetAddress() string
	Uploaded() uint64
	Downloaded() uint64
	CreatedAt() time.Time
}

// TransportSnapshot is the state of a transport at one point in time.
type TransportSnapshot struct {
	TransportID   string
	Status        string
	AgentAddress  string
	TargetAddress string
	Uploaded      uint64
	Downloaded    uint64
	CreatedAt     time.Time
	TakenAt       time.Time
}

// TakeSnapshot copies the current state of t.
func TakeSnapshot(t Transport) TransportSnapshot {
	return TransportSnapshot{
		TransportID:   t.ID(),
		Status:        t.Status(),
		AgentAddress:  t.AgentAddress(),
		TargetAddress: t.TargetAddress(),
		Uploaded:      t.Uploaded(),
		Downloaded:    t.Downloaded(),
		CreatedAt:     t.CreatedAt(),
		TakenAt:       time.Now(),
	}
}

func (s TransportSnapshot) fields() logger.Fields {
	return logger.Fields{
		"transport_id":   s.TransportID,
		"status":         s.Status,
		"agent_address":  s.AgentAddress,
		"target_address": s.TargetAddress,
		"uploaded":       s.Uploaded,
		"downloaded":     s.Downloaded,
		"created_at":     s.CreatedAt,
		"taken_at":       s.TakenAt,
	}
}

// TransportTraffic is a count of bytes moved in one direction.
type TransportTraffic struct {
	TransportID string
	Type        TrafficType
	Bytes       uint64
}

func NewTransportTraffic(transportID string, trafficType TrafficType, bytes uint64) TransportTraffic {
	return TransportTraffic{
		TransportID: transportID,
		Type:        trafficType,
		Bytes:       bytes,
	}
}

func (t TransportTraffic) fields() logger.Fields {
	return logger.Fields{
		"transport_id": t.TransportID,
		"traffic_type": t.Type.String(),
		"bytes":        t.Bytes,
	}
}
