package main

import (
	"bytes"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestAddressEncodeIPv4(t *testing.T) {
	out, err := runCLI(t, "address", "encode", "--host", "127.0.0.1", "--port", "8080")
	require.NoError(t, err)
	assert.Equal(t, "017f0000011f90", out)
}

func TestAddressEncodeDomain(t *testing.T) {
	out, err := runCLI(t, "address", "encode", "--kind", "domain", "--host", "example.com", "--port", "443")
	require.NoError(t, err)
	assert.Equal(t, "03000000000000000b6578616d706c652e636f6d01bb", out)
}

func TestAddressEncodeKindMismatch(t *testing.T) {
	_, err := runCLI(t, "address", "encode", "--kind", "ipv4", "--host", "example.com", "--port", "1")
	assert.Error(t, err)
}

func TestAddressDecode(t *testing.T) {
	out, err := runCLI(t, "address", "decode", "03000000000000000b6578616d706c652e636f6d01bbff")
	require.NoError(t, err)

	var view addressView
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	assert.Equal(t, addressView{
		Kind:      "domain",
		Host:      "example.com",
		Port:      443,
		Address:   "example.com:443",
		Remaining: 1,
	}, view)
}

func TestAddressDecodeInvalidKind(t *testing.T) {
	_, err := runCLI(t, "address", "decode", "097f0000011f90")
	assert.Error(t, err)
}

func TestMessageEncodePlain(t *testing.T) {
	out, err := runCLI(t, "message", "encode", "--encryption", "plain", "--payload", "AB")
	require.NoError(t, err)
	assert.Equal(t, "0000000000000000"+"0000000000000000"+"00"+"0000000000000002"+"4142", out)
}

func TestMessageEncodeDecodeOpen(t *testing.T) {
	encoded, err := runCLI(t, "message", "encode",
		"--id", "m-1", "--token", "0123456789abcdef", "--encryption", "aes", "--payload", "hello proxy")
	require.NoError(t, err)

	out, err := runCLI(t, "message", "decode", "--open", encoded)
	require.NoError(t, err)

	var view messageView
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	assert.Equal(t, "m-1", view.ID)
	assert.Equal(t, "aes", view.Encryption)
	assert.Equal(t, "hello proxy", view.Payload)
	assert.True(t, view.Opened)
	assert.Zero(t, view.Remaining)
}

func TestMessageEncodeRequiresTokenForCipher(t *testing.T) {
	_, err := runCLI(t, "message", "encode", "--payload", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--token is required for aes encryption")

	_, err = runCLI(t, "message", "encode", "--encryption", "blowfish", "--payload", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--token is required for blowfish encryption")
}

func TestMessageEncodePlainWithoutToken(t *testing.T) {
	_, err := runCLI(t, "message", "encode", "--encryption", "plain", "--payload", "hi")
	assert.NoError(t, err)
}

// startEchoServer accepts one connection, reads until the client half-closes
// and writes everything back.
func startEchoServer(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		_, _ = conn.Write(data)
	}()
	return ln.Addr().String()
}

func TestMonitorDialReportsTraffic(t *testing.T) {
	addr := startEchoServer(t)
	t.Setenv("PPAASS_MONITOR_TRAFFIC_CHANNEL_SIZE", "64")

	out, err := runCLI(t, "monitor", "dial", addr, "--payload", "hello target")
	require.NoError(t, err)

	var view dialView
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	assert.Equal(t, addr, view.Target)
	assert.NotEmpty(t, view.Agent)
	assert.Equal(t, "closed", view.Status)
	assert.Equal(t, uint64(len("hello target")), view.Uploaded)
	assert.Equal(t, uint64(len("hello target")), view.Downloaded)
	assert.Equal(t, 64, view.TrafficChannelSize)
	assert.Equal(t, 1024, view.SnapshotChannelSize)
}

func TestMonitorDialUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = runCLI(t, "monitor", "dial", addr, "--timeout", "1s")
	assert.Error(t, err)
}

func TestMessageDecodeTruncated(t *testing.T) {
	_, err := runCLI(t, "message", "decode", "00000000000000ff41")
	assert.Error(t, err)
}

func TestConfigShow(t *testing.T) {
	out, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "snapshot_channel_size: 1024")
	assert.Contains(t, out, "encryption: aes")
}
