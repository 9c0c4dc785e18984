package player

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/clipreel/clipreel/log"
)

// Event names delivered to an EventCallback besides observed property names.
const (
	EventSeek            = "seek"
	EventPlaybackRestart = "playback-restart"
	EventEndFile         = "end-file"
)

// EventCallback receives an observed property change (name, value) or a bare
// mpv event (name, nil).
type EventCallback func(name string, data any)

// observed lists the properties reported through the event connection.
var observed = []string{"time-pos", "pause", "duration"}

const (
	listenerReadTimeout = 5 * time.Second
	listenerBufSize     = 4096
)

// EventListener keeps a persistent connection to mpv and dispatches its events.
type EventListener struct {
	socketPath string
	conn       net.Conn
	callback   EventCallback
	stopCh     chan struct{}
	done       chan struct{}
	mu         sync.Mutex
	listening  bool
}

// NewEventListener creates a new event listener for the given socket.
func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start connects, registers the property observers on that same connection and starts the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	// Observers are scoped to the client that registers them.
	for i, name := range observed {
		payload, err := json.Marshal(ipcCommand{Command: []any{"observe_property", i + 1, name}})
		if err != nil {
			conn.Close()
			return fmt.Errorf("marshal observe %s: %w", name, err)
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true
	go el.readLoop()

	log.Infof("mpv event listener started on %s (observing: %v)", el.socketPath, observed)
	return nil
}

// Stop terminates the event listener.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	close(el.stopCh)
	if el.conn != nil {
		el.conn.Close()
	}
	el.listening = false
}

// Done is closed once the read loop has returned, for example after mpv quit.
func (el *EventListener) Done() <-chan struct{} {
	return el.done
}

func (el *EventListener) readLoop() {
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
		close(el.done)
	}()

	buf := make([]byte, listenerBufSize)
	var remainder []byte

	for {
		select {
		case <-el.stopCh:
			return
		default:
		}

		if err := el.conn.SetReadDeadline(time.Now().Add(listenerReadTimeout)); err != nil {
			return
		}

		n, err := el.conn.Read(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			select {
			case <-el.stopCh:
			default:
				log.Warnf("event listener read error: %v", err)
			}
			return
		}

		var lines [][]byte
		lines, remainder = splitLines(remainder, buf[:n])
		for _, line := range lines {
			if name, data, ok := parseEvent(line); ok && el.callback != nil {
				el.callback(name, data)
			}
		}
	}
}

// splitLines appends chunk to a partial line left from the previous read and
// returns the complete lines plus the new partial tail.
func splitLines(remainder, chunk []byte) (lines [][]byte, rest []byte) {
	data := append(remainder, chunk...)

	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		if line := bytes.TrimSpace(data[:i]); len(line) > 0 {
			lines = append(lines, line)
		}
		data = data[i+1:]
	}

	if len(data) == 0 {
		return lines, nil
	}
	return lines, append([]byte(nil), data...)
}

// parseEvent decodes one mpv line. Command replies are not events.
func parseEvent(line []byte) (name string, data any, ok bool) {
	var msg ipcMessage
	if err := json.Unmarshal(line, &msg); err != nil || msg.Event == "" {
		return "", nil, false
	}

	if msg.Event == "property-change" {
		if msg.Name == "" {
			return "", nil, false
		}
		return msg.Name, msg.Data, true
	}

	return msg.Event, nil, true
}
