// Command dmd downloads a minecraft-data version directory for use as the
// server's -palette-dir.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	get "github.com/hashicorp/go-getter"

	"github.com/go-theft-craft/oreveins/internal/server/packet"
	"github.com/go-theft-craft/oreveins/internal/server/world/block"
)

func main() {
	var (
		base     = flag.String("base", "https://github.com/PrismarineJS/minecraft-data.git", "base url")
		platform = flag.String("platform", "pc", "platform of schemas")
		ver      = flag.String("version", packet.VersionName, "version of schemas")
		out      = flag.String("o", "./scheme", "output dir path")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(*base, *platform, *ver, *out, log); err != nil {
		log.Error("download failed", "error", err)
		os.Exit(1)
	}
}

func run(base, platform, ver, out string, log *slog.Logger) error {
	switch {
	case out == "":
		return fmt.Errorf("output dir path required")
	case platform == "":
		return fmt.Errorf("platform required")
	case ver == "":
		return fmt.Errorf("version required")
	}

	path := fmt.Sprintf("%s/%s-%s", out, platform, ver)
	if err := os.RemoveAll(path); err != nil {
		return err
	}

	log.Info("start downloading schemes", "path", path)

	// e.g. https://github.com/PrismarineJS/minecraft-data/tree/master/data/pc/1.21.1
	url := fmt.Sprintf("git::%s//data/%s/%s", base, platform, ver)
	if err := get.Get(path, url); err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}

	p, err := block.LoadPalette(path)
	if err != nil {
		return err
	}
	if missing := p.Missing(); len(missing) > 0 {
		log.Warn("data lacks blocks the server uses", "blocks", missing)
	}
	log.Info("done downloading schemes", "path", path, "palette", p)
	return nil
}
