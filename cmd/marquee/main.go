package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/drake/marquee/config"
	"github.com/drake/marquee/console"
	"github.com/drake/marquee/debug"
	"github.com/drake/marquee/internal/buffer"
	"github.com/drake/marquee/internal/logfmt"
	"github.com/drake/marquee/lua"
	"github.com/drake/marquee/output"
	"github.com/drake/marquee/text"
	"github.com/drake/marquee/ui"
	"github.com/drake/marquee/ui/style"
)

func main() {
	// Parse flags
	fallback := flag.String("fallback", "", "Render with this size (WxH) even without a compatible terminal")
	script := flag.String("script", "", "Canvas script (default <config dir>/canvas.lua if present)")
	envFile := flag.String("env", "", "Load environment overrides from this file")
	jsonLogs := flag.Bool("json", false, "Decode JSON log lines")
	nonBlocking := flag.Bool("nonblocking", false, "Write frames from a background goroutine")
	fps := flag.Int("fps", 0, "Redraws per second (default 10)")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: marquee [flags] -- command [args...]")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "marquee:", err)
		os.Exit(2)
	}
	if *fallback != "" {
		d, err := ui.ParseDimensions(*fallback)
		if err != nil {
			fmt.Fprintln(os.Stderr, "marquee: -fallback:", err)
			os.Exit(2)
		}
		cfg.Fallback = &d
	}
	if *fps > 0 {
		cfg.FPS = *fps
	}
	if *script == "" {
		if _, err := os.Stat(config.CanvasScript()); err == nil {
			*script = config.CanvasScript()
		}
	}

	// Styles render for the terminal we draw on, not stdout.
	lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(os.Stderr))

	r := runner{
		cfg:         cfg,
		args:        args,
		script:      *script,
		nonBlocking: *nonBlocking,
		decoder:     logfmt.Decoder{JSON: *jsonLogs, Styles: style.DefaultStyles()},
	}
	os.Exit(r.run())
}

type runner struct {
	cfg         config.Config
	args        []string
	script      string
	nonBlocking bool
	decoder     logfmt.Decoder
}

func (r runner) run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitor, closeLog := r.openMonitor()
	defer closeLog()
	logger := monitor.Logger()
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	opts := []console.Option{
		console.WithMinimumEmit(r.cfg.MinEmit),
		console.WithMaxBuffered(r.cfg.MaxBuffered),
		console.WithLogger(logger),
	}
	c, ok := r.openConsole(opts...)
	if !ok {
		logger.Printf("[INFO] %s, passing output through", passthroughReason())
		return passthrough(ctx, r.args)
	}

	root, closeScript, err := r.canvas()
	if err != nil {
		fmt.Fprintln(os.Stderr, "marquee:", err)
		return 2
	}
	defer closeScript()

	cmd := exec.CommandContext(ctx, r.args[0], r.args[1:]...)
	cmd.Stdin = os.Stdin
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		fmt.Fprintln(os.Stderr, "marquee:", err)
		return 2
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		fmt.Fprintln(os.Stderr, "marquee:", err)
		return 2
	}

	started := time.Now()
	if err := cmd.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "marquee:", err)
		return 127
	}

	// Output lines - unbounded buffer so the child never blocks on a slow
	// terminal. Past 50,000 queued lines the oldest are dropped.
	lines := buffer.Unbounded[string](100, 50000)
	exited := make(chan error, 1)

	var wg sync.WaitGroup
	for _, pipe := range []io.Reader{stdout, stderr} {
		pipe := pipe
		wg.Add(1)
		go func() {
			defer wg.Done()
			scan(pipe, lines.In(), maxLine)
		}()
	}
	go func() {
		wg.Wait()
		exited <- cmd.Wait()
		close(lines.In())
	}()

	st := newStatus(r.decoder.Styles, r.args, started)
	root.status = st
	l := &loop{
		console: c,
		root:    root,
		status:  st,
		decoder: r.decoder,
		monitor: monitor,
		logger:  logger,
	}

	ticker := time.NewTicker(time.Second / time.Duration(r.cfg.FPS))
	defer ticker.Stop()

	// Render loop - this goroutine owns the console.
	in := lines.Out()
	for in != nil {
		select {
		case line, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			l.line(line)

		case now := <-ticker.C:
			l.tick(now, lines.Dropped())
		}
	}

	code := exitCode(<-exited)
	if err := l.finish(time.Now(), lines.Dropped(), code); err != nil {
		fmt.Fprintln(os.Stderr, "marquee:", err)
	}
	monitor.Stop(c.Stats())
	return code
}

// loop holds the state of the render loop. Its methods run on the
// goroutine that owns the console.
type loop struct {
	console *console.Console
	root    *root
	status  *status
	decoder logfmt.Decoder
	monitor *debug.Monitor
	logger  *log.Logger

	// First render failure. Rendering stops after it; it is reported when
	// the command exits.
	renderErr error
}

func (l *loop) line(s string) {
	l.console.Emit(text.Lines{l.decoder.Decode(s)})
	l.status.lines++
}

func (l *loop) tick(now time.Time, dropped int64) {
	if l.renderErr != nil {
		return
	}
	l.status.now = now
	l.status.dropped = dropped
	l.root.update(l.status)
	if err := l.console.Render(l.root); err != nil {
		l.renderErr = fmt.Errorf("render: %w", err)
		l.logger.Printf("[ERROR] %v", l.renderErr)
	}
	l.monitor.Observe(now, l.console.Stats())
}

// finish draws the final frame with the exit status and restores the
// terminal. It returns the first render error joined with any finalize
// error.
func (l *loop) finish(now time.Time, dropped int64, code int) error {
	l.status.now = now
	l.status.dropped = dropped
	l.status.exited = true
	l.status.exitCode = code
	l.root.update(l.status)

	var finalErr error
	if err := l.console.Finalize(l.root); err != nil {
		finalErr = fmt.Errorf("finalize: %w", err)
	}
	return errors.Join(l.renderErr, finalErr)
}

// openConsole picks the output backend. Without a compatible terminal and
// without a fallback size there is nothing to draw on.
func (r runner) openConsole(opts ...console.Option) (*console.Console, bool) {
	if !r.nonBlocking {
		if r.cfg.Fallback != nil {
			return console.ForcedNew(*r.cfg.Fallback, opts...), true
		}
		return console.New(opts...)
	}
	if r.cfg.Fallback == nil && !output.Compatible() {
		return nil, false
	}
	return console.NewWithOutput(r.cfg.Fallback, output.NonBlockingStderr(), opts...), true
}

func passthroughReason() string {
	if output.IsDumbTerm() {
		return "TERM is dumb"
	}
	return "stderr is not a terminal"
}

// openMonitor returns a stats monitor logging to the debug log, or a nil
// monitor when debugging is off.
func (r runner) openMonitor() (*debug.Monitor, func()) {
	if !r.cfg.Debug && !debug.Enabled() {
		return nil, func() {}
	}
	path := config.DebugLog()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, func() {}
	}
	return debug.NewMonitor(f, 5*time.Second), func() { f.Close() }
}

// canvas builds the root component: the optional script above the status row.
func (r runner) canvas() (*root, func(), error) {
	rt := &root{}
	if r.script == "" {
		return rt, func() {}, nil
	}
	comp := lua.New()
	if err := comp.DoFile(r.script); err != nil {
		comp.Close()
		return nil, nil, err
	}
	rt.script = comp
	return rt, comp.Close, nil
}

// root stacks the script component, if any, above the status row.
type root struct {
	script *lua.Component
	status *status
}

// update exposes the run state to the script as globals.
func (rt *root) update(s *status) {
	if rt.script == nil {
		return
	}
	rt.script.Set("command", s.command)
	rt.script.Set("elapsed", s.now.Sub(s.started).Seconds())
	rt.script.Set("lines", s.lines)
	rt.script.Set("dropped", s.dropped)
	rt.script.Set("exited", s.exited)
	rt.script.Set("exit_code", s.exitCode)
}

func (rt *root) Draw(size ui.Dimensions, mode ui.DrawMode) (text.Lines, error) {
	stack := ui.Stack{}
	if rt.script != nil {
		stack = append(stack, rt.script)
	}
	if rt.status != nil {
		stack = append(stack, rt.status)
	}
	return stack.Draw(size, mode)
}

// maxLine is the longest line forwarded; longer lines are cut.
const maxLine = 1 << 20

// scan forwards lines from r until EOF. Bytes of a line past limit are
// skipped, and reading resumes with the next line.
func scan(r io.Reader, out chan<- string, limit int) {
	br := bufio.NewReaderSize(r, 64*1024)
	var line []byte
	for {
		chunk, err := br.ReadSlice('\n')
		if room := limit - len(line); room > 0 {
			line = append(line, chunk[:min(len(chunk), room)]...)
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err == nil || len(line) > 0 {
			out <- strings.TrimRight(string(line), "\r\n")
		}
		if err != nil {
			return
		}
		line = line[:0]
	}
}

// passthrough runs the command with its output connected directly.
func passthrough(ctx context.Context, args []string) int {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "marquee:", err)
		return 127
	}
	return exitCode(cmd.Wait())
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
	}
	return 1
}
