package player

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/clipreel/clipreel/constant"
	"github.com/clipreel/clipreel/log"
	"github.com/clipreel/clipreel/where"
	"github.com/samber/lo"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// ErrNotStarted is returned by commands sent before Open.
var ErrNotStarted = errors.New("mpv is not running")

// MPV implements Player using mpv's JSON-IPC protocol.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when the mpv process exits
	mu         sync.Mutex    // serializes socket requests
	listener   *EventListener
}

// NewMPV creates a new MPV player instance without starting it.
func NewMPV() *MPV {
	return &MPV{
		exited: make(chan struct{}),
	}
}

// Open starts mpv paused on media with an IPC socket and waits for the socket to accept connections.
func (m *MPV) Open(media, title string) error {
	target, err := sanitizeMediaTarget(media)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("%s-%x.sock", constant.Clipreel, randomBytes))
	}

	m.cmd = exec.Command("mpv", mpvArgs(m.socketPath, sanitizeTitle(title), target)...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	log.WithFields(log.Fields{"media": target, "socket": m.socketPath}).Info("mpv started")

	// Reap the process so it never lingers as a zombie.
	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return nil
}

// mpvArgs leaves video output, hwdec and profiles to the user's mpv.conf.
func mpvArgs(socket, title, target string) []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--input-ipc-server=" + socket,
		"--force-window=yes",
		"--keep-open=yes",
		"--pause=yes",
	}

	if title != "" {
		args = append(args, "--force-media-title="+title, "--title="+title)
	}

	return append(args, "--", target)
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// TimePos returns the current playback position in seconds.
func (m *MPV) TimePos() (float64, error) {
	return m.floatProperty("time-pos")
}

// Duration returns the total duration of the current media in seconds.
func (m *MPV) Duration() (float64, error) {
	return m.floatProperty("duration")
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	if m.socketPath == "" {
		return ErrNotStarted
	}
	_, err := m.sendCommand("seek", seconds, "absolute", "exact")
	return err
}

// SetPaused sets mpv's pause property.
func (m *MPV) SetPaused(paused bool) error {
	return m.set("pause", paused)
}

// SetChapters publishes chapter markers on mpv's seek bar.
func (m *MPV) SetChapters(chapters []Chapter) error {
	list := lo.Map(chapters, func(c Chapter, _ int) map[string]any {
		return map[string]any{"title": c.Title, "time": c.Time}
	})
	return m.set("chapter-list", list)
}

// Listen opens the event connection and starts observing properties.
func (m *MPV) Listen(callback EventCallback) (*EventListener, error) {
	if m.socketPath == "" {
		return nil, ErrNotStarted
	}

	el := NewEventListener(m.socketPath, callback)
	if err := el.Start(); err != nil {
		return nil, err
	}

	m.listener = el
	return el, nil
}

// Close quits mpv, force-killing it if it does not exit in time, and removes the socket.
func (m *MPV) Close() error {
	if m.listener != nil {
		m.listener.Stop()
	}

	if m.socketPath == "" || m.cmd == nil {
		return nil
	}

	select {
	case <-m.exited:
	default:
		_, _ = m.sendCommand("quit")

		select {
		case <-m.exited:
		case <-time.After(quitTimeout):
			log.Warn("mpv ignored quit, killing it")
			_ = killProcess(m.cmd)
		}
	}

	if err := os.Remove(m.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove socket: %w", err)
	}

	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

func (m *MPV) set(property string, value any) error {
	if m.socketPath == "" {
		return ErrNotStarted
	}
	_, err := m.sendCommand("set_property", property, value)
	return err
}

func (m *MPV) floatProperty(name string) (float64, error) {
	if m.socketPath == "" {
		return 0, ErrNotStarted
	}

	data, err := m.sendCommand("get_property", name)
	if err != nil {
		return 0, err
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeMediaTarget accepts local paths and http(s) URLs and rejects anything that looks like a flag.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty media target")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in media target")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("media target must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
