package jobs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/KitchenMishap/huffpack/archive"
	"github.com/KitchenMishap/huffpack/codec"
	"github.com/KitchenMishap/huffpack/fileio"
	"github.com/KitchenMishap/huffpack/logger"
	"github.com/KitchenMishap/huffpack/verify"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const ArchiveExt = ".huf"

type Options struct {
	OutDir  string // Empty means next to each input
	Workers int    // 0 picks from the CPU count
	Verify  bool   // Decode each result again (table and tree walk) before writing
	Logger  logger.Logger
}

type FileReport struct {
	Input   string
	Output  string
	Stats   codec.CompressionStats
	Elapsed time.Duration
}

func DefaultWorkers() int {
	numWorkers := runtime.NumCPU()
	if numWorkers > 4 {
		numWorkers -= 2 // Some spare for the OS
	}
	return numWorkers
}

func OutputPath(input, outDir string) string {
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, filepath.Base(input)+ArchiveExt)
}

// EncodeFile compresses one file into a self describing archive.
func EncodeFile(input, output string, check bool) (FileReport, error) {
	start := time.Now()
	data, err := fileio.ReadFile(input)
	if err != nil {
		return FileReport{}, err
	}

	var res codec.Result
	if check {
		res, err = verify.RoundTrip(data)
	} else {
		res, err = codec.Encode(data)
	}
	if err != nil {
		return FileReport{}, fmt.Errorf("%s: %w", input, err)
	}
	if err := fileio.WriteFile(output, archive.Marshal(res, data)); err != nil {
		return FileReport{}, err
	}
	return FileReport{
		Input:   input,
		Output:  output,
		Stats:   codec.Stats(res, len(data)),
		Elapsed: time.Since(start),
	}, nil
}

func DecodeFile(input, output string) error {
	b, err := fileio.ReadFile(input)
	if err != nil {
		return err
	}
	data, err := archive.Decode(b)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	return fileio.WriteFile(output, data)
}

// ListFiles returns the regular files of dir that are not archives already.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fileio.ErrInputUnavailable, err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasSuffix(e.Name(), ArchiveExt) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// EncodeFiles encodes every path with a pool of workers. The first failure
// cancels the rest.
func EncodeFiles(ctx context.Context, paths []string, opts Options) ([]FileReport, error) {
	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers()
	}
	lg := opts.Logger
	if lg == nil {
		lg = logger.Discard()
	}

	reports := make([]FileReport, len(paths))
	fileChan := make(chan int)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < numWorkers; w++ {
		g.Go(func() error {
			for idx := range fileChan {
				// Check if another worker already failed
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				in := paths[idx]
				report, err := EncodeFile(in, OutputPath(in, opts.OutDir), opts.Verify)
				if err != nil {
					lg.Errorf("encode %s: %v", in, err)
					return err
				}
				lg.Infof("encoded %s -> %s", report.Input, report.Output)
				// Index is unique per worker so no lock needed
				reports[idx] = report
			}
			return nil
		})
	}

	// Feed the workers
	g.Go(func() error {
		defer close(fileChan)
		for idx := range paths {
			select {
			case fileChan <- idx:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func EncodeDir(ctx context.Context, dir string, opts Options) ([]FileReport, error) {
	paths, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}
	return EncodeFiles(ctx, paths, opts)
}

func PrintReport(w io.Writer, reports []FileReport) {
	p := message.NewPrinter(language.English) // For commas between thousands
	var in, out int64
	for _, r := range reports {
		p.Fprintf(w, "%s: %d -> %d bytes (%.3f bits/byte, %d symbols, %v)\n",
			filepath.Base(r.Input), r.Stats.InputBytes, r.Stats.PackedBytes,
			r.Stats.BitsPerSymbol(), r.Stats.DistinctSymbols, r.Elapsed.Round(time.Millisecond))
		in += r.Stats.InputBytes
		out += r.Stats.PackedBytes
	}
	p.Fprintf(w, "Total: %d files, %d -> %d bytes\n", len(reports), in, out)
}
