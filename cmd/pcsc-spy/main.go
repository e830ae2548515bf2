// pcsc-spy decodes the trace written by the libpcsclite spy layer: it
// demultiplexes the interleaved per-thread call stream, prints a decoded
// view of every PC/SC call, and ends with per-thread execution statistics.
package main

import (
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"

	"github.com/LudovicRousseau/PCSC-devel/internal/aggregate"
	"github.com/LudovicRousseau/PCSC-devel/internal/demux"
	"github.com/LudovicRousseau/PCSC-devel/internal/logutil"
)

type configuration struct {
	// Fifo is the spy output to read; the fifo created by the spy
	// library in $HOME is the default. A positional argument overrides
	// it, which also allows replaying a recorded trace file.
	Fifo     string `env:"PCSC_SPY_FIFO" env-default:""`
	Color    string `env:"PCSC_SPY_COLOR" env-default:"auto"`
	Diffable bool   `env:"PCSC_SPY_DIFFABLE" env-default:"false"`
}

func main() {
	logutil.ConfigureLogger()

	var config configuration
	if err := cleanenv.ReadEnv(&config); err != nil {
		log.Fatal().Err(err).Msg("reading environment configuration")
	}

	path := config.Fifo
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal().Err(err).Msg("locating the spy fifo")
		}
		path = filepath.Join(home, "pcsc-spy")
	}

	switch config.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		color.NoColor = !isatty.IsTerminal(os.Stdout.Fd())
	}

	// Opening the fifo blocks until the traced application opens its end.
	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("opening trace source")
	}
	defer f.Close()

	agg := aggregate.New()
	m := demux.New(os.Stdout, agg, demux.Options{Diffable: config.Diffable})
	report, err := m.Run(newFileSource(f))
	if err != nil {
		if report == nil {
			log.Fatal().Err(err).Msg("trace decoding aborted")
		}
		log.Error().Err(err).Msg("one or more sessions ended with decode errors")
	}
	report.Render(os.Stdout)
}
