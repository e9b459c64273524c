// Package client talks to the boot monitor from the host side, over a
// serial device or a TCP serial endpoint.
package client

import (
	"bufio"
	"io"
	"log"
	"net"
	"strings"
	"time"

	"go.bug.st/serial"
)

const (
	DIAL_TIMEOUT = 5 * time.Second
	LINE_BACKLOG = 256 // Lines buffered ahead of the reader.
)

// Client is a line-oriented view of the monitor's serial output.
type Client struct {
	Verbose bool // If set, log every line sent and received.

	conn  io.ReadWriter
	lines chan string
	err   error
}

// New starts reading lines from conn.
func New(conn io.ReadWriter) (cl *Client) {
	cl = &Client{
		conn:  conn,
		lines: make(chan string, LINE_BACKLOG),
	}

	go cl.reader()

	return
}

// Dial connects to a TCP serial endpoint, such as QEMU's
// `-serial tcp::5555,server`.
func Dial(addr string) (cl *Client, err error) {
	conn, err := net.DialTimeout("tcp", addr, DIAL_TIMEOUT)
	if err != nil {
		return
	}

	cl = New(conn)

	return
}

// OpenSerial opens a serial device at 8-N-1.
func OpenSerial(path string, baud int) (cl *Client, err error) {
	port, err := serial.Open(path, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return
	}

	err = port.ResetInputBuffer()
	if err != nil {
		port.Close()
		return
	}

	cl = New(port)

	return
}

// SerialPorts lists the serial devices on this host.
func SerialPorts() ([]string, error) {
	return serial.GetPortsList()
}

func (cl *Client) reader() {
	defer close(cl.lines)

	rd := bufio.NewReader(cl.conn)
	for {
		line, err := rd.ReadString('\n')
		if len(line) > 0 {
			cl.lines <- strings.TrimRight(line, "\r\n")
		}
		if err != nil {
			cl.err = err
			return
		}
	}
}

// Send writes raw bytes to the line.
func (cl *Client) Send(data ...byte) (err error) {
	if cl.Verbose {
		log.Printf("client: > %q", data)
	}

	_, err = cl.conn.Write(data)

	return
}

// ReadLine returns the next line, without its terminator.
func (cl *Client) ReadLine(timeout time.Duration) (line string, err error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case line, ok := <-cl.lines:
		if !ok {
			return "", cl.closed()
		}
		cl.received(line)
		return line, nil
	case <-timer.C:
		return "", &ErrTimeout{Token: "\n"}
	}
}

func (cl *Client) received(line string) {
	if cl.Verbose {
		log.Printf("client: < %q", line)
	}
}

func (cl *Client) closed() error {
	if cl.err != nil && cl.err != io.EOF {
		return cl.err
	}

	return ErrClosed
}

// ReadUntil returns every line up to and including the first one that
// contains token.
func (cl *Client) ReadUntil(token string, timeout time.Duration) (lines []string, err error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case line, ok := <-cl.lines:
			if !ok {
				err = cl.closed()
				return
			}
			cl.received(line)
			lines = append(lines, line)
			if strings.Contains(line, token) {
				return
			}
		case <-timer.C:
			err = &ErrTimeout{Token: token, Lines: lines}
			return
		}
	}
}

// Drain returns lines until none arrive for idle.
func (cl *Client) Drain(idle time.Duration) (lines []string) {
	for {
		line, err := cl.ReadLine(idle)
		if err != nil {
			return
		}
		lines = append(lines, line)
	}
}

// Command sends a command letter and reads its reply. With a token, the
// reply ends at the line containing it; without one, when the line has
// been idle for timeout.
func (cl *Client) Command(letter byte, token string, timeout time.Duration) (lines []string, err error) {
	err = cl.Send(letter)
	if err != nil {
		return
	}

	if token == "" {
		lines = cl.Drain(timeout)
		return
	}

	return cl.ReadUntil(token, timeout)
}

// Close closes the underlying line, if it can be closed.
func (cl *Client) Close() (err error) {
	if closer, ok := cl.conn.(io.Closer); ok {
		err = closer.Close()
	}

	return
}
