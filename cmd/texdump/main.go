package main

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/namsral/flag"
	"github.com/natefinch/atomic"

	"wardrobe-texcache/internal/config"
	"wardrobe-texcache/internal/decode"
	"wardrobe-texcache/internal/texture"
)

func dumpLevel(dst string, img *image.NRGBA) error {
	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return fmt.Errorf("encode %s: %w", dst, err)
	}
	if err := atomic.WriteFile(dst, &buf); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}

func dumpTexture(outDir string, kind texture.Kind, tex *texture.Texture, all bool) error {
	stem := strings.TrimSuffix(filepath.Base(tex.Path), filepath.Ext(tex.Path))
	levels := tex.Levels
	if !all {
		levels = levels[:1]
	}
	for i, lvl := range levels {
		dst := filepath.Join(outDir, fmt.Sprintf("%s_%s_mip%d.webp", stem, kind, i))
		if err := dumpLevel(dst, lvl); err != nil {
			return err
		}
	}
	b := tex.Bounds()
	fmt.Printf("OK  %s -> %s  (%dx%d, %d level(s) written, linear=%v, compressed %d bytes)\n",
		tex.Path, outDir, b.Dx(), b.Dy(), len(levels), tex.Linear, len(tex.Compressed))
	return nil
}

func main() {
	fs := flag.NewFlagSetWithEnvPrefix(os.Args[0], "WARDROBE", flag.ExitOnError)
	configFile := fs.String("config", "", "Path to config file (JSON, comments allowed)")
	kindName := fs.String("kind", "diffuse", "Texture kind: diffuse, normal, specular or gloss")
	outDir := fs.String("out", "", "Output directory (default: <scene>/texdump)")
	mips := fs.Bool("mips", false, "Write every mip level, not just the base")
	fs.Parse(os.Args[1:])

	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: texdump [flags] <texture>...")
		fs.PrintDefaults()
		os.Exit(2)
	}

	kind, err := texture.ParseKind(*kindName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	var cfg config.Config
	if *configFile != "" {
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cfg.Resolve(config.Flags{}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *outDir != "" {
		cfg.DumpDir = *outDir
	}
	if err := os.MkdirAll(cfg.DumpDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	pool := decode.NewPool(cfg.Workers,
		decode.WithMaxFileSize(cfg.MaxTextureBytes()),
		decode.WithMaxPixels(cfg.MaxTexturePixels),
		decode.WithLogger(log),
	)
	cache := texture.NewCache(pool, texture.WithLogger(log))

	written := make(map[string]bool)
	errors := 0
	for _, f := range files {
		cache.WithTexture(f, kind, func(tex *texture.Texture) {
			if written[f] {
				return
			}
			written[f] = true
			if err := dumpTexture(cfg.DumpDir, kind, tex, *mips); err != nil {
				fmt.Fprintf(os.Stderr, "ERR %v\n", err)
				errors++
			}
		})
	}

	pool.Close()
	cache.Update()

	for _, f := range files {
		if !written[f] {
			// The cache already logged why
			errors++
			written[f] = true
		}
	}

	if errors > 0 {
		fmt.Printf("\nDone with %d error(s).\n", errors)
		os.Exit(1)
	}
	fmt.Println("\nDone. All textures dumped.")
}
