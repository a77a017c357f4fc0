package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/namsral/flag"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"wardrobe-texcache/internal/config"
	"wardrobe-texcache/internal/decode"
	"wardrobe-texcache/internal/outfit"
	"wardrobe-texcache/internal/texture"
	"wardrobe-texcache/internal/wardrobe"
)

const usage = `usage: wardrobe [flags] <command> [args]

commands:
  list <clothing>                    list outfits for a clothing item
  apply <clothing> <outfit>          load an outfit onto the -materials set
  save <clothing> <outfit>           remember an outfit choice
  apply-saved                        load every remembered outfit
`

func main() {
	fs := flag.NewFlagSetWithEnvPrefix(os.Args[0], "WARDROBE", flag.ExitOnError)
	configFile := fs.String("config", "", "Path to config file (JSON, comments allowed)")
	sceneDir := fs.String("scene", "", "Scene directory (default: current directory)")
	globalDir := fs.String("global", "", "Global directory searched after the scene")
	workers := fs.Int("workers", 0, "Number of decode goroutines (default: NumCPU)")
	maxSize := fs.String("max-size", "", "Largest texture file to decode, e.g. 64MiB")
	maxPixels := fs.Int64("max-pixels", 0, "Largest texture to decode, in width*height pixels")
	materials := fs.String("materials", "", "Comma-separated material names of the clothing item")
	verbose := fs.Bool("v", false, "Log debug output")
	printMetrics := fs.Bool("metrics", false, "Print cache metrics when done")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	err := cfg.Resolve(config.Flags{
		SceneDir:         *sceneDir,
		GlobalDir:        *globalDir,
		Workers:          *workers,
		MaxTextureSize:   *maxSize,
		MaxTexturePixels: *maxPixels,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	args := fs.Args()
	if len(args) == 0 {
		fs.Usage()
		os.Exit(2)
	}

	locator := outfit.NewLocator(outfit.OSLister{}, cfg.Roots()...)

	switch cmd := args[0]; cmd {
	case "list":
		need(args, 2)
		outfits := locator.Outfits(args[1])
		if len(outfits) == 0 {
			fmt.Printf("No outfits for %s. Put textures in <scene>/Textures/Wardrobe/%s/<outfit>.\n", args[1], args[1])
			return
		}
		for _, o := range outfits {
			fmt.Println(o)
		}
		return

	case "save":
		need(args, 3)
		if _, err := locator.Directory(args[1], args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		sel, err := wardrobe.LoadSelections(cfg.SelectionsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		sel.Set(args[1], args[2])
		if err := sel.Save(cfg.SelectionsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved %s -> %s in %s\n", args[1], args[2], cfg.SelectionsFile)
		return

	case "apply", "apply-saved":
		// below

	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", cmd)
		fs.Usage()
		os.Exit(2)
	}

	reg := prometheus.NewRegistry()
	pool := decode.NewPool(cfg.Workers,
		decode.WithMaxFileSize(cfg.MaxTextureBytes()),
		decode.WithMaxPixels(cfg.MaxTexturePixels),
		decode.WithLogger(log),
	)
	cache := texture.NewCache(pool,
		texture.WithLogger(log),
		texture.WithMetrics(texture.NewMetrics(reg)),
	)
	w := wardrobe.New(cache, locator, log)

	mats := make(map[string][]wardrobe.Material)
	materialsFor := func(clothing string) []wardrobe.Material {
		if m, ok := mats[clothing]; ok {
			return m
		}
		m := newMaterials(clothing, *materials)
		mats[clothing] = m
		return m
	}

	fmt.Printf("Roots: %s\n", strings.Join(cfg.Roots(), ", "))
	fmt.Printf("Workers: %d, max texture size: %s, %d pixels\n", cfg.Workers, cfg.MaxTextureSize, cfg.MaxTexturePixels)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	requested := 0
	failed := false

	switch args[0] {
	case "apply":
		need(args, 3)
		requested, err = w.Apply(args[1], args[2], materialsFor(args[1]))
	case "apply-saved":
		var sel *wardrobe.Selections
		sel, err = wardrobe.LoadSelections(cfg.SelectionsFile)
		if err == nil {
			err = w.ApplySaved(sel, materialsFor)
			if err != nil {
				// Other selections still loaded
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
				failed = true
				err = nil
			}
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fmt.Printf("  [%d decoded, %d queued]\n", pool.Completed(), pool.Pending())
			}
		}
	}()

	// Close waits for every queued decode, so one Update delivers them all.
	pool.Close()
	close(done)
	cache.Update()

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs, %d slot(s) requested, %d file(s) decoded\n",
		time.Since(start).Seconds(), requested, pool.Completed())

	clothes := make([]string, 0, len(mats))
	for c := range mats {
		clothes = append(clothes, c)
	}
	sort.Strings(clothes)
	for _, c := range clothes {
		for _, m := range mats[c] {
			report(c, m.(*material))
		}
	}

	if *printMetrics {
		if err := writeMetrics(reg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: metrics: %v\n", err)
		}
	}

	if failed {
		os.Exit(1)
	}
}

func need(args []string, n int) {
	if len(args) < n {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func report(clothing string, m *material) {
	for _, slot := range outfit.Slots {
		tex := m.slots[slot]
		if tex == nil {
			continue
		}
		b := tex.Bounds()
		fmt.Printf("  %s/%s %-10s %s (%dx%d, %d levels)\n",
			clothing, m.name, slot.Property(), tex.Path, b.Dx(), b.Dy(), len(tex.Levels))
	}
}

func writeMetrics(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	fmt.Println()
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(os.Stdout, mf); err != nil {
			return err
		}
	}
	return nil
}
