package speech

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/zibao/internal/logging"
)

// Command speaks by running an external text-to-speech program with the
// text as its final argument. A new Speak kills the previous process.
type Command struct {
	mu     sync.Mutex
	name   string
	args   []string
	cancel context.CancelFunc
	log    *zap.Logger
}

var _ Speaker = (*Command)(nil)

// NewCommand creates a Command running name with args before the text.
func NewCommand(name string, args []string, log *zap.Logger) *Command {
	return &Command{name: name, args: args, log: logging.OrNop(log)}
}

func (c *Command) Speak(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()

	if strings.TrimSpace(text) == "" {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	argv := append(append([]string(nil), c.args...), text)
	cmd := exec.CommandContext(ctx, c.name, argv...)
	if err := cmd.Start(); err != nil {
		cancel()
		c.log.Warn("speech command failed to start", zap.String("command", c.name), zap.Error(err))
		return
	}
	c.cancel = cancel
	go func() {
		_ = cmd.Wait()
		cancel()
	}()
}

func (c *Command) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Command) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// engines are tried in order when ZIBAO_TTS is unset.
var engines = []struct {
	name string
	args []string
}{
	{"espeak-ng", []string{"-v", "cmn"}},
	{"espeak", []string{"-v", "zh"}},
	{"say", []string{"-v", "Ting-Ting"}},
}

// FromEnv picks the speech engine. ZIBAO_TTS may name a command line
// ("espeak-ng -v cmn -s 140") or "off"; otherwise the first installed engine
// is used. Without one, speech is a no-op.
func FromEnv(log *zap.Logger) Speaker {
	log = logging.OrNop(log)
	if v := strings.TrimSpace(os.Getenv("ZIBAO_TTS")); v != "" {
		if strings.EqualFold(v, "off") {
			return Nop{}
		}
		fields := strings.Fields(v)
		return NewCommand(fields[0], fields[1:], log)
	}
	for _, e := range engines {
		if _, err := exec.LookPath(e.name); err == nil {
			log.Info("speech engine selected", zap.String("command", e.name))
			return NewCommand(e.name, e.args, log)
		}
	}
	log.Info("no speech engine found, speech disabled")
	return Nop{}
}
