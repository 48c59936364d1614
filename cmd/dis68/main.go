// Command dis68 disassembles raw 68000 code into a forest dump that
// chunkgen reads with --isa forest.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/grimdork/climate/arg"

	"github.com/Urethramancer/chunkgen/disassembler"
	"github.com/Urethramancer/chunkgen/forest"
	"github.com/Urethramancer/chunkgen/logging"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		logging.Error("dis68 failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	opt := arg.New("dis68")
	opt.SetDefaultHelp(true)
	err := errors.Join(
		opt.SetOption(arg.GroupDefault, "a", "base", "Load address of the code.", "0", false, arg.VarString, nil),
		opt.SetOption(arg.GroupDefault, "v", "verbose", "Report what was written.", false, false, arg.VarBool, nil),
		opt.SetPositional("INPUT", "Raw big-endian 68000 code.", "", true, arg.VarString),
		opt.SetPositional("OUTPUT", "Dump file. Defaults to stdout.", "", false, arg.VarString),
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

	if opt.GetBool("verbose") {
		logging.InitLogger(logging.LevelInfo, logging.FormatText)
	}
	base, err := strconv.ParseUint(opt.GetString("base"), 0, 64)
	if err != nil {
		return fmt.Errorf("bad base address: %w", err)
	}
	return dump(opt.GetPosString("INPUT"), opt.GetPosString("OUTPUT"), base, stdout)
}

func dump(input, output string, base uint64, stdout io.Writer) error {
	code, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	f := disassembler.Analyze(code, base)
	var buf bytes.Buffer
	if err := forest.Encode(&buf, f); err != nil {
		return err
	}

	if output == "" {
		_, err = stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logging.Info("disassembly written",
		"path", output,
		"code", humanize.Bytes(uint64(len(code))),
		"instructions", f.Count(),
	)
	return nil
}
