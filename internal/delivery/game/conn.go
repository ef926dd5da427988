package game

import (
	"bufio"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// maxLineLength bounds one protocol line on every transport.
	maxLineLength = 4096
	closeTimeout  = time.Second
)

// LineConn is a duplex channel of newline-delimited text lines.
type LineConn interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
	RemoteAddr() string
}

// tcpConn frames lines on a raw byte stream.
type tcpConn struct {
	conn    net.Conn
	scanner *bufio.Scanner
	mu      sync.Mutex
}

func NewTCPConn(conn net.Conn) LineConn {
	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 1024), maxLineLength)
	return &tcpConn{conn: conn, scanner: sc}
}

// ReadLine fails with bufio.ErrTooLong on a line over maxLineLength.
func (c *tcpConn) ReadLine() (string, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(c.scanner.Text(), "\r"), nil
}

func (c *tcpConn) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.conn, line+"\n")
	return err
}

func (c *tcpConn) Close() error {
	return c.conn.Close()
}

func (c *tcpConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// wsConn carries one protocol line per websocket text frame.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewWebsocketConn(conn *websocket.Conn) LineConn {
	conn.SetReadLimit(maxLineLength)
	return &wsConn{conn: conn}
}

func (c *wsConn) ReadLine() (string, error) {
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return "", err
		}
		if kind == websocket.TextMessage {
			return strings.TrimRight(string(data), "\r\n"), nil
		}
	}
}

func (c *wsConn) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

// Close does not take mu: a writer blocked on a slow peer must not hold it up.
func (c *wsConn) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeTimeout))
	return c.conn.Close()
}

func (c *wsConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
