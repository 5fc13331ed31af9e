package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/df-mc/dragonfly/server/block/cube"
	"go.uber.org/zap"

	"github.com/oriumgames/clipschem"
	"github.com/oriumgames/clipschem/format"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "inspect":
		inspectCmd(os.Args[2:])
	case "convert":
		convertCmd(os.Args[2:])
	case "digest":
		digestCmd(os.Args[2:])
	case "formats":
		fmt.Println(strings.Join(clipschem.Formats(), "\n"))
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: schemtool inspect|convert|digest|formats [flags] ...")
}

// common registers the flags every subcommand shares.
type common struct {
	config  *string
	format  *string
	verbose *bool
}

func commonFlags(fs *flag.FlagSet) common {
	return common{
		config:  fs.String("config", "", "profile YAML path (optional)"),
		format:  fs.String("format", "", "input format id (optional; detected when empty)"),
		verbose: fs.Bool("v", false, "verbose logging"),
	}
}

func (c common) setup() (Profile, format.Options, *zap.SugaredLogger) {
	log := newLogger(*c.verbose)
	p, err := LoadProfile(*c.config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load profile:", err)
		os.Exit(2)
	}
	opts, err := p.Options(log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "options:", err)
		os.Exit(1)
	}
	return p, opts, log
}

func (c common) read(path string, opts format.Options) (format.Clipboard, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	formatID := strings.TrimSpace(*c.format)
	if formatID == "" {
		if formatID, err = clipschem.Detect(f); err != nil {
			return nil, "", err
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, "", err
		}
	}
	clip, err := clipschem.ReadFormat(f, formatID, opts)
	return clip, formatID, err
}

func newLogger(verbose bool) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

func inspectCmd(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	c := commonFlags(fs)
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "missing schematic path")
		os.Exit(2)
	}
	_, opts, log := c.setup()

	exit := 0
	for _, path := range fs.Args() {
		clip, formatID, err := c.read(path, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exit = 1
			continue
		}
		printSummary(path, formatID, clip)
	}
	_ = log.Sync()
	os.Exit(exit)
}

func printSummary(path, formatID string, clip format.Clipboard) {
	r := clip.Region()
	fmt.Printf("%s\n", path)
	fmt.Printf("  format:       %s\n", formatID)
	fmt.Printf("  data version: %d (%s)\n", clip.DataVersion(), format.GameVersion(clip.DataVersion()))
	fmt.Printf("  size:         %dx%dx%d\n", r.Width(), r.Height(), r.Length())
	fmt.Printf("  min:          %v\n", r.Min)
	fmt.Printf("  origin:       %v\n", clip.Origin())

	states := make(map[string]int)
	blocks, blockEntities := 0, 0
	for y := r.Min.Y(); y <= r.Max.Y(); y++ {
		for z := r.Min.Z(); z <= r.Max.Z(); z++ {
			for x := r.Min.X(); x <= r.Max.X(); x++ {
				pos := cube.Pos{x, y, z}
				if b := clip.Block(pos); b != nil {
					states[b.Name]++
					blocks++
				}
				if clip.BlockEntity(pos) != nil {
					blockEntities++
				}
			}
		}
	}
	fmt.Printf("  blocks:       %d non-air, %d block types, %d block entities\n", blocks, len(states), blockEntities)
	fmt.Printf("  biomes:       %t\n", clip.HasBiomes())

	entities := clip.Entities()
	fmt.Printf("  entities:     %d\n", len(entities))
	for _, e := range entities {
		id := "-"
		if u, ok := e.UUID(); ok {
			id = u.String()
		}
		fmt.Printf("    %s %s at %.2f,%.2f,%.2f", e.ID, id, e.Pos[0], e.Pos[1], e.Pos[2])
		if m, ok := e.Motion(); ok && m.Len() > 0 {
			fmt.Printf(" moving %.2f,%.2f,%.2f", m[0], m[1], m[2])
		}
		fmt.Println()
	}

	meta := clip.Metadata()
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, nested := meta[k].(map[string]any); nested {
			continue
		}
		fmt.Printf("  meta %s: %v\n", k, meta[k])
	}
}

func convertCmd(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	c := commonFlags(fs)
	to := fs.String("to", "", "output format id (defaults to the profile's output_format)")
	out := fs.String("out", "", "output path (required)")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected exactly one input path")
		os.Exit(2)
	}
	if strings.TrimSpace(*out) == "" {
		fmt.Fprintln(os.Stderr, "missing -out")
		os.Exit(2)
	}
	p, opts, log := c.setup()
	defer log.Sync()

	target := strings.TrimSpace(*to)
	if target == "" {
		target = p.OutputFormat
	}

	clip, formatID, err := c.read(fs.Arg(0), opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, "create:", err)
		os.Exit(1)
	}
	if err := clipschem.WriteFormat(f, target, clip, opts); err != nil {
		_ = f.Close()
		fmt.Fprintln(os.Stderr, "write:", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "close:", err)
		os.Exit(1)
	}
	log.Infow("converted schematic", "in", fs.Arg(0), "from", formatID, "out", *out, "to", target)
}

func digestCmd(args []string) {
	fs := flag.NewFlagSet("digest", flag.ExitOnError)
	c := commonFlags(fs)
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "missing schematic path")
		os.Exit(2)
	}
	_, opts, log := c.setup()

	exit := 0
	for _, path := range fs.Args() {
		clip, _, err := c.read(path, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exit = 1
			continue
		}
		fmt.Printf("%016x  %s\n", format.Digest(clip), path)
	}
	_ = log.Sync()
	os.Exit(exit)
}
