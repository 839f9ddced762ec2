// Command veinscan generates a square of chunks and prints how many of each
// block the ore vein pass produced.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-theft-craft/oreveins/internal/server/world"
	"github.com/go-theft-craft/oreveins/internal/server/world/gen"
)

type row struct {
	Block string  `yaml:"block"`
	Count int     `yaml:"count"`
	Share float64 `yaml:"share"`
}

type report struct {
	Seed   int64 `yaml:"seed"`
	Legacy bool  `yaml:"legacy"`
	Radius int   `yaml:"radius"`
	Chunks int   `yaml:"chunks"`
	Blocks []row `yaml:"blocks"`
}

func main() {
	var (
		seed    = flag.Int64("seed", 0, "world seed")
		legacy  = flag.Bool("legacy", false, "use the legacy random source")
		radius  = flag.Int("radius", 4, "chunk radius around the origin")
		workers = flag.Int("workers", runtime.NumCPU(), "generation workers")
		asYAML  = flag.Bool("yaml", false, "print YAML instead of a table")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	start := time.Now()
	w := world.NewWorld(gen.NewVeinGenerator(*seed, *legacy))
	census, err := w.Census(ctx, *radius, *workers)
	if err != nil {
		log.Error("census", "error", err)
		os.Exit(1)
	}
	log.Info("scanned", "chunks", census.Chunks, "took", time.Since(start))

	rep := buildReport(census, *seed, *legacy, *radius)
	if *asYAML {
		err = yaml.NewEncoder(os.Stdout).Encode(rep)
	} else {
		err = writeTable(os.Stdout, rep)
	}
	if err != nil {
		log.Error("write report", "error", err)
		os.Exit(1)
	}
}

func buildReport(c world.Census, seed int64, legacy bool, radius int) report {
	rep := report{Seed: seed, Legacy: legacy, Radius: radius, Chunks: c.Chunks}
	total := 0
	for _, n := range c.Counts {
		total += n
	}
	for _, e := range c.Sorted() {
		r := row{Block: e.State.String(), Count: e.Count}
		if total > 0 {
			r.Share = float64(e.Count) / float64(total)
		}
		rep.Blocks = append(rep.Blocks, r)
	}
	return rep
}

func writeTable(out io.Writer, rep report) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "seed %d, legacy %t, %d chunks\t\t\t\n", rep.Seed, rep.Legacy, rep.Chunks)
	fmt.Fprintln(tw, "block\tcount\tshare\t")
	for _, r := range rep.Blocks {
		fmt.Fprintf(tw, "%s\t%d\t%.4f%%\t\n", r.Block, r.Count, r.Share*100)
	}
	return tw.Flush()
}
