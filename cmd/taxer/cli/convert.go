package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/odyssey-erp/taxer/internal/app"
	"github.com/odyssey-erp/taxer/internal/entries"
	"github.com/odyssey-erp/taxer/taxer"
)

// Exit codes returned by ConvertCommand.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitInvalidInput = 2
)

// ConvertOptions defines available flags for the convert command.
type ConvertOptions struct {
	Inputs   []string
	Output   string
	OutDir   string
	Encoding string
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
}

// Converter runs the entries to Taxer CSV workflow.
type Converter struct {
	cfg     *app.Config
	logger  *slog.Logger
	entries *entries.Converter
}

// NewConverter constructs a Converter from validated configuration.
func NewConverter(cfg *app.Config, logger *slog.Logger) (*Converter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Converter{
		cfg:    cfg,
		logger: logger,
		entries: entries.NewConverter(entries.Options{
			DefaultCurrency: cfg.DefaultCurrency,
			DateLayout:      cfg.DateLayout,
			TrimText:        cfg.TrimText,
		}),
	}, nil
}

// ConvertCommand executes the convert workflow and returns the process exit
// code. Without OutDir every input is appended, in order, to a single output.
// With OutDir each input is written to <OutDir>/<name>.csv concurrently.
func (c *Converter) ConvertCommand(ctx context.Context, opts ConvertOptions) int {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if len(opts.Inputs) == 0 {
		opts.Inputs = []string{"-"}
	}
	encodingName := opts.Encoding
	if encodingName == "" {
		encodingName = c.cfg.OutputEncoding
	}
	charset, err := app.NormalizeEncoding(encodingName)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "convert: %v\n", err)
		return ExitFailure
	}
	if opts.OutDir != "" && opts.Output != "" {
		_, _ = fmt.Fprintln(opts.Stderr, "convert: --output and --out-dir are mutually exclusive")
		return ExitFailure
	}

	logger := c.logger.With(slog.String("run_id", uuid.NewString()), slog.String("encoding", charset))
	if opts.OutDir != "" {
		err = c.convertEach(ctx, logger, opts, charset)
	} else {
		err = c.convertAll(ctx, logger, opts, charset)
	}
	if err != nil {
		logger.Error("convert", slog.Any("error", err))
		_, _ = fmt.Fprintf(opts.Stderr, "convert: %v\n", err)
		var entryErr *entries.EntryError
		if errors.As(err, &entryErr) || errors.Is(err, entries.ErrNoEntries) {
			return ExitInvalidInput
		}
		return ExitFailure
	}
	return ExitOK
}

func (c *Converter) convertAll(ctx context.Context, logger *slog.Logger, opts ConvertOptions, charset string) error {
	var records []taxer.Record
	for _, input := range opts.Inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		converted, err := c.readRecords(input, opts.Stdin)
		if err != nil {
			return err
		}
		records = append(records, converted...)
	}

	out := opts.Stdout
	target := "stdout"
	if opts.Output != "" && opts.Output != "-" {
		file, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = file.Close() }()
		out = file
		target = opts.Output
	}
	if err := writeRecords(out, charset, records); err != nil {
		return err
	}
	logger.Info("records written", slog.String("output", target), slog.Int("records", len(records)))
	return nil
}

func (c *Converter) convertEach(ctx context.Context, logger *slog.Logger, opts ConvertOptions, charset string) error {
	for _, input := range opts.Inputs {
		if input == "-" {
			return errors.New("stdin input cannot be combined with --out-dir")
		}
	}
	if err := checkOutputNames(opts.Inputs); err != nil {
		return err
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)
	for _, input := range opts.Inputs {
		input := input
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records, err := c.readRecords(input, nil)
			if err != nil {
				return err
			}
			target := filepath.Join(opts.OutDir, outputName(input))
			file, err := os.Create(target)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer func() { _ = file.Close() }()
			if err := writeRecords(file, charset, records); err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			logger.Info("records written", slog.String("input", input), slog.String("output", target), slog.Int("records", len(records)))
			return nil
		})
	}
	return g.Wait()
}

func (c *Converter) readRecords(input string, stdin io.Reader) ([]taxer.Record, error) {
	var src io.Reader
	if input == "-" {
		src = stdin
	} else {
		file, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = file.Close() }()
		src = file
	}
	list, err := entries.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	records, err := c.entries.Records(list)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	return records, nil
}

func writeRecords(w io.Writer, charset string, records []taxer.Record) error {
	if charset == app.EncodingWindows1251 {
		w = charsetWriter{w: w, enc: charmap.Windows1251.NewEncoder()}
	}
	return taxer.Encode(w, records)
}

// charsetWriter transcodes each chunk as a whole. The taxer encoder hands over
// one complete line per Write, so a line with an unsupported rune never
// reaches the sink.
type charsetWriter struct {
	w   io.Writer
	enc *encoding.Encoder
}

func (c charsetWriter) Write(p []byte) (int, error) {
	out, err := c.enc.Bytes(p)
	if err != nil {
		return 0, err
	}
	n, err := c.w.Write(out)
	if err == nil && n < len(out) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// checkOutputNames rejects inputs that would share a file under --out-dir.
func checkOutputNames(inputs []string) error {
	seen := make(map[string]string, len(inputs))
	for _, input := range inputs {
		name := outputName(input)
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("inputs %s and %s both map to %s", prev, input, name)
		}
		seen[name] = input
	}
	return nil
}

func outputName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".csv"
}
