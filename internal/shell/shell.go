package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maauso/audiotrim/internal/audio"
	"github.com/maauso/audiotrim/internal/trim"
)

// plotWidth is the number of columns used by the wave command.
const plotWidth = 64

// ErrQuit is returned by Exec when the user asks to leave.
var ErrQuit = errors.New("quit")

// errUsage marks malformed command lines.
var errUsage = errors.New("usage")

// Shell reads commands and applies them to a trim session.
type Shell struct {
	session   *trim.Session
	validator *validator.Validate
	out       io.Writer
	logger    *slog.Logger
	prompt    string
}

// Option configures a Shell.
type Option func(*Shell)

// WithPrompt sets the prompt printed before each command. Empty disables it.
func WithPrompt(p string) Option {
	return func(s *Shell) {
		s.prompt = p
	}
}

// New creates a new Shell writing to out.
func New(session *trim.Session, out io.Writer, logger *slog.Logger, opts ...Option) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Shell{
		session:   session,
		validator: validator.New(),
		out:       out,
		logger:    logger,
		prompt:    "> ",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run reads commands from in until EOF, quit, or ctx is done.
// Command errors are printed and do not stop the loop.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	s.println(s.session.Status())
	s.printPrompt()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return ctx.Err()
				}
			}

			err := s.Exec(ctx, line)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				s.printf("error: %v\n", err)
			}
			s.printPrompt()
		}
	}
}

// Exec runs a single command line.
func (s *Shell) Exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	s.logger.Debug("shell command", slog.String("command", name))

	switch strings.ToLower(name) {
	case "load", "open":
		return s.load(ctx, rest)
	case "start":
		return s.setPercent(rest, s.session.SetStart)
	case "end":
		return s.setPercent(rest, s.session.SetEnd)
	case "play":
		return s.play(ctx)
	case "export":
		return s.export(ctx, rest)
	case "wave", "waveform":
		return s.wave()
	case "status":
		return s.status()
	case "help", "?":
		s.help()
		return nil
	case "quit", "exit", "q":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command %q, try help", name)
	}
}

func (s *Shell) load(ctx context.Context, arg string) error {
	req := LoadRequest{Path: arg}
	if err := s.validator.Struct(req); err != nil {
		return fmt.Errorf("%w: load <path>", errUsage)
	}
	if !audio.IsSupportedInput(req.Path) {
		return fmt.Errorf("unsupported file type, expected one of %s",
			strings.Join(audio.SupportedInputs(), " "))
	}

	if err := s.session.Load(ctx, req.Path); err != nil {
		return err
	}
	s.println(s.session.Status())
	return s.wave()
}

func (s *Shell) setPercent(arg string, set func(int)) error {
	v, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("%w: expected a number from 0 to 100", errUsage)
	}
	req := PercentRequest{Value: v}
	if err := s.validator.Struct(req); err != nil {
		return fmt.Errorf("%w: value must be between 0 and 100", errUsage)
	}

	set(req.Value)
	r := s.session.Range()
	s.printf("range %d%% - %d%%\n", r.Start(), r.End())
	return nil
}

func (s *Shell) play(ctx context.Context) error {
	task := s.session.Play(ctx)
	if task == nil {
		return nil
	}
	startMs, endMs := s.session.Boundaries()
	s.printf("playing %s - %s\n", formatMs(startMs), formatMs(endMs))
	return nil
}

func (s *Shell) export(ctx context.Context, arg string) error {
	req := parseExport(arg)
	if err := s.validator.Struct(req); err != nil {
		return fmt.Errorf("%w: format must be one of mp3, wav, ogg, flac", errUsage)
	}

	result, err := s.session.Export(ctx, req.Path, audio.Format(req.Format))
	if result.Path != "" {
		s.printf("%s (%s, %s - %s)\n", s.session.Status(), result.Path,
			formatMs(result.StartMs), formatMs(result.EndMs))
		if result.URL != "" {
			s.printf("published to %s\n", result.URL)
		}
	}
	return err
}

// parseExport splits "export" arguments into a path, which may contain
// spaces, and an optional trailing format. The last word is taken as the
// format only when it has no extension or directory part.
func parseExport(arg string) ExportRequest {
	i := strings.LastIndexAny(arg, " \t")
	if i < 0 {
		return ExportRequest{Path: arg}
	}
	last := arg[i+1:]
	if strings.ContainsAny(last, "./\\") {
		return ExportRequest{Path: arg}
	}
	return ExportRequest{
		Path:   strings.TrimSpace(arg[:i]),
		Format: strings.ToLower(last),
	}
}

func (s *Shell) wave() error {
	points := s.session.Waveform()
	if len(points) == 0 {
		return nil
	}
	r := s.session.Range()
	width := min(plotWidth, len(points))
	s.println(renderWaveform(points, width))
	s.println(renderSelection(r.Start(), r.End(), width))
	return nil
}

func (s *Shell) status() error {
	s.println(s.session.Status())
	buf := s.session.Buffer()
	if buf == nil {
		return nil
	}
	r := s.session.Range()
	startMs, endMs := s.session.Boundaries()
	s.printf("duration %s, %d Hz, %d ch\n", formatMs(buf.DurationMs), buf.Format.SampleRate, buf.Format.NumChannels)
	s.printf("range %d%% - %d%% (%s - %s)\n", r.Start(), r.End(), formatMs(startMs), formatMs(endMs))
	return nil
}

func (s *Shell) help() {
	s.println(`commands:
  load <path>                      open an audio file (` + strings.Join(audio.SupportedInputs(), " ") + `)
  start <0-100>                    move the start of the selection
  end <0-100>                      move the end of the selection
  play                             preview the selection
  export [path] [mp3|wav|ogg|flac] write the selection (default ` + trim.DefaultExportPath + `)
  wave                             draw the waveform
  status                           show what is loaded
  quit                             leave`)
}

func (s *Shell) printPrompt() {
	if s.prompt != "" {
		_, _ = io.WriteString(s.out, s.prompt)
	}
}

func (s *Shell) println(msg string) {
	_, _ = fmt.Fprintln(s.out, msg)
}

func (s *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
