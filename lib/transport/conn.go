package transport

import "net"

// MeteredConn counts the bytes moved through a net.Conn against a
// Transport. Reads are downloads and writes are uploads.
type MeteredConn struct {
	net.Conn
	transport *Transport
}

func NewMeteredConn(conn net.Conn, t *Transport) *MeteredConn {
	return &MeteredConn{Conn: conn, transport: t}
}

func (c *MeteredConn) Read(b []byte) (int, error) {
	n, err := c.Conn.Read(b)
	c.transport.AddDownload(n)
	return n, err
}

func (c *MeteredConn) Write(b []byte) (int, error) {
	n, err := c.Conn.Write(b)
	c.transport.AddUpload(n)
	return n, err
}

// Close closes the connection and the transport.
func (c *MeteredConn) Close() error {
	err := c.Conn.Close()
	c.transport.Close()
	return err
}

// Transport returns the transport being metered.
func (c *MeteredConn) Transport() *Transport {
	return c.transport
}
