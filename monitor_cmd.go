package main

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/ppaass/ppaass/lib/common"
	"github.com/ppaass/ppaass/lib/config"
	"github.com/ppaass/ppaass/lib/monitor"
	"github.com/ppaass/ppaass/lib/transport"
	"github.com/ppaass/ppaass/lib/util/logger"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

type dialView struct {
	TransportID         string `yaml:"transport_id"`
	Agent               string `yaml:"agent"`
	Target              string `yaml:"target"`
	Status              string `yaml:"status"`
	Uploaded            uint64 `yaml:"uploaded"`
	Downloaded          uint64 `yaml:"downloaded"`
	SnapshotChannelSize int    `yaml:"snapshot_channel_size"`
	TrafficChannelSize  int    `yaml:"traffic_channel_size"`
}

func newMonitorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run metered transports through the telemetry monitor",
	}
	cmd.AddCommand(newMonitorDialCommand())
	return cmd
}

func newMonitorDialCommand() *cobra.Command {
	var (
		payload string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "dial HOST:PORT",
		Short: "Send a payload over a metered TCP transport and print what the monitor saw",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.CurrentConfig()
			view, err := dialMetered(cmd.Context(), cfg.Monitor, args[0], []byte(payload), timeout)
			if err != nil {
				return err
			}
			return writeYAML(cmd, view)
		},
	}
	cmd.Flags().StringVar(&payload, "payload", "", "bytes to send before half-closing the connection")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "dial and read timeout")
	return cmd
}

// dialMetered connects to target, writes payload, half-closes and reads
// until the peer closes or timeout expires. Every byte is accounted through
// a Monitor built from cfg.
func dialMetered(ctx context.Context, cfg config.MonitorConfig, target string, payload []byte, timeout time.Duration) (dialView, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	targetAddr, err := parseHostPort(target)
	if err != nil {
		return dialView{}, err
	}

	m := monitor.New(cfg)
	stats := monitor.NewStats()
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, stats) }()

	raw, err := net.DialTimeout("tcp", target, timeout)
	if err != nil {
		m.Close()
		<-done
		return dialView{}, oops.With("target", target).Wrapf(err, "dialing target")
	}
	agentAddr, err := parseHostPort(raw.LocalAddr().String())
	if err != nil {
		_ = raw.Close()
		m.Close()
		<-done
		return dialView{}, err
	}

	id := "dial-" + raw.LocalAddr().String()
	tr := transport.New(id, agentAddr, targetAddr, m.Collector())
	tr.MarkConnected()
	conn := transport.NewMeteredConn(raw, tr)

	exchangeErr := exchange(conn, raw, payload, timeout)
	_ = conn.Close()
	m.Close()
	if err := <-done; err != nil {
		return dialView{}, oops.Wrapf(err, "draining monitor")
	}
	if exchangeErr != nil {
		return dialView{}, exchangeErr
	}

	log.WithFields(logger.Fields{
		"at":         "dialMetered",
		"target":     target,
		"uploaded":   tr.Uploaded(),
		"downloaded": tr.Downloaded(),
	}).Debug("metered transport finished")

	view := dialView{
		TransportID:         id,
		Agent:               agentAddr.String(),
		Target:              targetAddr.String(),
		SnapshotChannelSize: cfg.SnapshotChannelSize,
		TrafficChannelSize:  cfg.TrafficChannelSize,
	}
	if st, ok := stats.Get(id); ok {
		view.Uploaded = st.Uploaded
		view.Downloaded = st.Downloaded
		if st.LastSnapshot != nil {
			view.Status = st.LastSnapshot.Status
		}
	}
	return view, nil
}

func exchange(conn *transport.MeteredConn, raw net.Conn, payload []byte, timeout time.Duration) error {
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return oops.Wrapf(err, "setting deadline")
	}
	if len(payload) > 0 {
		if _, err := conn.Write(payload); err != nil {
			return oops.Wrapf(err, "writing payload")
		}
	}
	if tcp, ok := raw.(*net.TCPConn); ok {
		if err := tcp.CloseWrite(); err != nil {
			return oops.Wrapf(err, "half-closing connection")
		}
	}
	_, err := io.Copy(io.Discard, conn)
	var netErr net.Error
	if err != nil && !(errors.As(err, &netErr) && netErr.Timeout()) {
		return oops.Wrapf(err, "reading response")
	}
	return nil
}

func parseHostPort(hostPort string) (common.Address, error) {
	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		return common.Address{}, oops.With("address", hostPort).Wrapf(err, "parsing address")
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return common.Address{}, oops.With("address", hostPort).Wrapf(err, "parsing port")
	}
	return buildAddress("", host, uint16(port))
}
