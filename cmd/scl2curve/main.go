// Command scl2curve converts Scala scale files to 16-bit pitch curves.
//
//	scl2curve [-kbm file] [-cents N] [-o out] [-j workers] file.scl...
//
// With one input the curve is written to -o, or next to the input when -o is
// empty. With several inputs every curve is written next to its source.
// Nothing is written unless every input converts and every curve is staged
// on disk; staged curves are then renamed into place.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Conceptual-Machines/tuning-api/internal/config"
	"github.com/Conceptual-Machines/tuning-api/internal/services"
	"github.com/joho/godotenv"
)

const outputPerm = 0o644

type options struct {
	keymap  string
	cents   float64
	output  string
	workers int
	inputs  []string
}

func main() {
	_ = godotenv.Load() // BATCH_WORKERS may come from .env

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "scl2curve: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("scl2curve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.keymap, "kbm", "", "keyboard mapping file (default: identity mapping)")
	fs.Float64Var(&opts.cents, "cents", 0, "transpose mapped keys by this many cents")
	fs.StringVar(&opts.output, "o", "", "output file (single input only)")
	fs.IntVar(&opts.workers, "j", 0, "parallel conversions (default: BATCH_WORKERS or 4)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: scl2curve [-kbm file] [-cents N] [-o out] [-j workers] file.scl...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.inputs = fs.Args()
	if len(opts.inputs) == 0 {
		fs.Usage()
		return nil, errors.New("no input files")
	}
	if opts.output != "" && len(opts.inputs) > 1 {
		fmt.Fprintln(stderr, "scl2curve: -o needs exactly one input")
		return nil, errors.New("-o with several inputs")
	}
	return opts, nil
}

func run(ctx context.Context, opts *options, stdout io.Writer) error {
	var keymap string
	if opts.keymap != "" {
		data, err := os.ReadFile(opts.keymap)
		if err != nil {
			return err
		}
		keymap = string(data)
	}

	reqs := make([]services.ConversionRequest, 0, len(opts.inputs))
	for _, input := range opts.inputs {
		data, err := os.ReadFile(input)
		if err != nil {
			return err
		}
		reqs = append(reqs, services.ConversionRequest{
			ScaleText:   string(data),
			KeymapText:  keymap,
			CentsOffset: opts.cents,
			Filename:    input,
		})
	}

	workers := opts.workers
	if workers <= 0 {
		workers = config.Load().BatchWorkers
	}

	results, err := services.NewConverter(workers).ConvertBatch(ctx, reqs)
	if err != nil {
		return err
	}

	outputs := make([]output, len(results))
	for i, result := range results {
		out := opts.output
		if out == "" {
			out = filepath.Join(filepath.Dir(opts.inputs[i]), result.Filename)
		}
		outputs[i] = output{path: out, data: result.Curve.Bytes()}
	}
	if err := writeAll(outputs); err != nil {
		return err
	}

	for i, result := range results {
		fmt.Fprintf(stdout, "%s -> %s (%d notes)\n", opts.inputs[i], outputs[i].path, len(result.Scale.Notes))
	}
	return nil
}

type output struct {
	path string
	data []byte
}

// writeAll stages every curve in a temp file next to its target and renames
// them into place only once all of them are on disk. A failed write removes
// the staged files and leaves existing targets untouched.
func writeAll(outputs []output) (err error) {
	staged := make([]string, 0, len(outputs))
	defer func() {
		if err != nil {
			for _, tmp := range staged {
				_ = os.Remove(tmp)
			}
		}
	}()

	for _, o := range outputs {
		tmp, err := stage(o)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}

	for i, o := range outputs {
		if err := os.Rename(staged[i], o.path); err != nil {
			return err
		}
	}
	return nil
}

func stage(o output) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(o.path), "."+filepath.Base(o.path)+".*.tmp")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(o.data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	if err := os.Chmod(f.Name(), outputPerm); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
