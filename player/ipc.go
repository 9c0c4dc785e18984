package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id,omitempty"`
}

// ipcMessage is any line mpv writes back: a reply or an event.
type ipcMessage struct {
	Data      any    `json:"data"`
	Error     string `json:"error"`
	RequestID int64  `json:"request_id"`
	Event     string `json:"event"`
	Name      string `json:"name"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = 1 * time.Second
)

var requestIDs atomic.Int64

// sendCommand sends a JSON-IPC command to mpv, retrying transient connection errors.
func (m *MPV) sendCommand(command ...any) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := doSendCommand(m.socketPath, command)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command %v failed after %d attempts: %w", command[0], maxRetries, lastErr)
}

// doSendCommand performs a single request over a fresh connection. mpv broadcasts
// events to every client, so lines are read until the reply with our request id.
func doSendCommand(socketPath string, command []any) (any, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	id := requestIDs.Add(1)
	payload, err := json.Marshal(ipcCommand{Command: command, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	if _, err = conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		var msg ipcMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}

		if msg.Event != "" || msg.RequestID != id {
			continue
		}

		if msg.Error != "" && msg.Error != "success" {
			return nil, fmt.Errorf("mpv error: %s", msg.Error)
		}

		return msg.Data, nil
	}
}
