package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/chat-bubbles/internal/chat"
	"github.com/eugenenazirov/chat-bubbles/internal/logging"
	"github.com/eugenenazirov/chat-bubbles/internal/packer"
	"github.com/eugenenazirov/chat-bubbles/internal/render"
)

var createOutput = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		kingpin.Fatalf("%v", err)
	}
}

// command carries the parsed arguments shared by every subcommand.
type command struct {
	logLevel      string
	locale        string
	topWords      int
	minWordLength int

	file    string
	kind    string
	format  string
	output  string
	width   int
	height  int
	seed    uint64
	hasSeed bool
}

func run(args []string, stdout io.Writer) (err error) {
	var c command

	app := kingpin.New("chatstat", "Draw statistics of a chat export as packed bubbles or bar charts")
	app.Flag("log-level", "Minimum log level (debug, info, warn, error)").Default("warn").StringVar(&c.logLevel)
	app.Flag("locale", "Language of weekday and month labels (en or ru)").Default(string(chat.LocaleEnglish)).StringVar(&c.locale)
	app.Flag("top-words", "Number of words kept by the words statistic").Default(fmt.Sprint(chat.DefaultTopWords)).IntVar(&c.topWords)
	app.Flag("min-word-length", "Words must be longer than this many letters").Default(fmt.Sprint(chat.DefaultMinWordLength)).IntVar(&c.minWordLength)

	statsCmd := app.Command("stats", "Print the counts of a statistic as JSON")
	addInput(statsCmd, &c)

	bubblesCmd := app.Command("bubbles", "Pack a statistic into bubbles")
	addInput(bubblesCmd, &c)
	bubblesCmd.Flag("format", "Output format").Default("svg").EnumVar(&c.format, "json", "svg", "png")
	bubblesCmd.Flag("width", "Container width in pixels").Default("390").IntVar(&c.width)
	bubblesCmd.Flag("height", "Container height in pixels").Default("600").IntVar(&c.height)
	bubblesCmd.Flag("seed", "Seed for placement and colors").IsSetByUser(&c.hasSeed).Uint64Var(&c.seed)
	addOutput(bubblesCmd, &c)

	barsCmd := app.Command("bars", "Draw a statistic as a bar chart")
	addInput(barsCmd, &c)
	barsCmd.Flag("format", "Output format").Default("png").EnumVar(&c.format, "svg", "png")
	addOutput(barsCmd, &c)

	selected, err := app.Parse(args)
	if err != nil {
		return err
	}

	logger, err := logging.New(c.logLevel, "console")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	kind, counts, err := c.load()
	if err != nil {
		return err
	}
	logger.Debug("statistic computed", zap.Stringer("kind", kind), zap.Int("labels", len(counts)))

	out := stdout
	if c.output != "" {
		f, createErr := createOutput(c.output)
		if createErr != nil {
			return fmt.Errorf("create output: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output: %w", closeErr)
			}
		}()
		out = f
	}

	switch selected {
	case statsCmd.FullCommand():
		return writeJSON(out, counts)
	case bubblesCmd.FullCommand():
		return c.bubbles(out, counts, logger)
	case barsCmd.FullCommand():
		format, err := render.ParseFormat(c.format)
		if err != nil {
			return err
		}
		return render.BarChart(out, counts, format, render.WithTitle(kind.Title()))
	}
	return fmt.Errorf("unknown command %q", selected)
}

func addInput(cmd *kingpin.CmdClause, c *command) {
	cmd.Arg("export", "Path to the exported result.json").Required().ExistingFileVar(&c.file)
	cmd.Arg("kind", "Statistic to compute").Required().EnumVar(&c.kind, "senders", "weekdays", "months", "words")
}

func addOutput(cmd *kingpin.CmdClause, c *command) {
	cmd.Flag("output", "Write to this file instead of stdout").Short('o').StringVar(&c.output)
}

// load reads the export and aggregates the requested statistic.
func (c command) load() (chat.Kind, []chat.Count, error) {
	kind, err := chat.ParseKind(c.kind)
	if err != nil {
		return 0, nil, err
	}
	locale, err := chat.ParseLocale(c.locale)
	if err != nil {
		return 0, nil, err
	}
	agg, err := chat.NewAggregator(
		chat.WithTopWords(c.topWords),
		chat.WithMinWordLength(c.minWordLength),
		chat.WithLocale(locale),
	)
	if err != nil {
		return 0, nil, err
	}

	f, err := os.Open(c.file)
	if err != nil {
		return 0, nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	export, err := chat.Decode(f)
	if err != nil {
		return 0, nil, err
	}
	counts, err := agg.Count(kind, export.Messages)
	if err != nil {
		return 0, nil, err
	}
	return kind, counts, nil
}

func (c command) bubbles(w io.Writer, counts []chat.Count, logger *zap.Logger) error {
	var opts []packer.Option
	var renderOpts []render.Option
	if c.hasSeed {
		opts = append(opts, packer.WithSeed(c.seed))
		renderOpts = append(renderOpts, render.WithSeed(c.seed))
	}

	bounds := packer.Rect(0, 0, float64(c.width), float64(c.height))
	result, err := packer.Pack(chat.Items(counts), bounds, opts...)
	if err != nil {
		return err
	}
	if !result.Converged() {
		logger.Warn("layout did not settle", zap.Int("iterations", result.Iterations))
	}
	logger.Debug("layout finished", zap.Stringer("status", result.Status), zap.Int("iterations", result.Iterations))

	switch c.format {
	case "json":
		circles := make([]circleJSON, len(result.Circles))
		for i, circle := range result.Circles {
			circles[i] = circleJSON{
				Label:  circle.Label,
				Weight: circle.Weight,
				Radius: circle.Radius,
				X:      circle.Position.X,
				Y:      circle.Position.Y,
			}
		}
		return writeJSON(w, circles)
	case "png":
		return render.BubblePNG(w, result, bounds, renderOpts...)
	default:
		_, err := w.Write(render.BubbleSVG(result, bounds, renderOpts...))
		return err
	}
}

type circleJSON struct {
	Label  string  `json:"label"`
	Weight int     `json:"weight"`
	Radius float64 `json:"radius"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
