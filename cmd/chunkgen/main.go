// Command chunkgen turns a disassembly forest, or raw machine code, into
// C++ source for the disassembly view's mock backends.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/grimdork/climate/arg"

	"github.com/Urethramancer/chunkgen/chunk"
	"github.com/Urethramancer/chunkgen/config"
	"github.com/Urethramancer/chunkgen/logging"
	"github.com/Urethramancer/chunkgen/render"
	"github.com/Urethramancer/chunkgen/source"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		logging.Error("chunkgen failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cfg := config.Load()

	opt := arg.New("chunkgen")
	opt.SetDefaultHelp(true)
	err := errors.Join(
		opt.SetOption(arg.GroupDefault, "s", "shape", "Output shape: blob or node.", cfg.Shape, false, arg.VarString, nil),
		opt.SetOption(arg.GroupDefault, "b", "block-type", "Block chunk type: block or basic-block.", cfg.BlockType, false, arg.VarString, nil),
		opt.SetOption(arg.GroupDefault, "f", "flat", "Attach instructions directly to blocks, without bundles.", !cfg.Bundles, false, arg.VarBool, nil),
		opt.SetOption(arg.GroupDefault, "i", "isa", "Input kind: auto, forest, m68k, x86-16, x86-32 or x86-64.", cfg.ISA, false, arg.VarString, nil),
		opt.SetOption(arg.GroupDefault, "a", "base", "Load address of raw code.", strconv.FormatUint(cfg.Base, 10), false, arg.VarString, nil),
		opt.SetOption(arg.GroupDefault, "t", "template", "Custom template file.", cfg.Template, false, arg.VarString, nil),
		opt.SetOption(arg.GroupDefault, "m", "memory-text", "Print memory operand expressions instead of a placeholder.", cfg.MemoryText, false, arg.VarBool, nil),
		opt.SetOption(arg.GroupDefault, "o", "output", "Output file.", "", false, arg.VarString, nil),
		opt.SetOption(arg.GroupDefault, "v", "verbose", "Log progress.", false, false, arg.VarBool, nil),
		opt.SetPositional("INPUT", "Forest dump or raw code.", "", true, arg.VarString),
		opt.SetPositional("OUTPUT", "Output file. Defaults to stdout.", "", false, arg.VarString),
	)
	if err != nil {
		return fmt.Errorf("define flags: %w", err)
	}

	err = opt.Parse(args)
	if err != nil {
		if errors.Is(err, arg.ErrNoArgs) {
			opt.PrintHelp()
		}
		return err
	}

	cfg.Shape = opt.GetString("shape")
	cfg.BlockType = opt.GetString("block-type")
	cfg.Bundles = !opt.GetBool("flat")
	cfg.ISA = opt.GetString("isa")
	cfg.Template = opt.GetString("template")
	cfg.MemoryText = opt.GetBool("memory-text")
	if opt.GetBool("verbose") {
		cfg.LogLevel = "debug"
	}
	cfg.Base, err = strconv.ParseUint(opt.GetString("base"), 0, 64)
	if err != nil {
		return fmt.Errorf("bad base address: %w", err)
	}

	output := opt.GetPosString("OUTPUT")
	if o := opt.GetString("output"); o != "" {
		output = o
	}
	return generate(cfg, opt.GetPosString("INPUT"), output, stdout)
}

// generate runs the whole pipeline. Nothing is written unless every stage
// succeeds.
func generate(cfg config.Config, input, output string, stdout io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := logging.ParseLevel(cfg.LogLevel)
	format, _ := logging.ParseFormat(cfg.LogFormat)
	logging.InitLogger(level, format)

	isa, _ := source.ParseISA(cfg.ISA)
	in, err := source.Load(input, isa, cfg.Base)
	if err != nil {
		return err
	}
	logging.Debug("loaded input",
		"path", in.Path,
		"size", humanize.Bytes(uint64(in.Size)),
		"compressed", in.Compressed,
		"trees", len(in.Forest.Trees),
		"instructions", in.Forest.Count(),
	)

	t, err := chunk.Build(in.Forest, cfg.BuildOptions())
	if err != nil {
		return err
	}
	if t.Approximated > 0 {
		logging.Warn("instruction ranges approximated by even slicing", "parse_results", t.Approximated)
	}
	logging.Debug("built chunk tree", "chunks", len(t.Chunks), "fragments", len(t.Fragments))

	text, err := render.Render(t, cfg.RenderOptions(input, in.Digest))
	if err != nil {
		return err
	}

	if output == "" {
		_, err = stdout.Write(text)
		return err
	}
	if err := os.WriteFile(output, text, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logging.Info("wrote output", "path", output, "size", humanize.Bytes(uint64(len(text))))
	return nil
}
