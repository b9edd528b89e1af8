package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"map-extractor/internal/common/logging"
	"map-extractor/internal/converter/idmap"
	"map-extractor/internal/converter/mapper"
	"map-extractor/internal/converter/models"
	"map-extractor/internal/converter/output"

	"go.uber.org/zap"
)

const usage = "usage: mapextract [flags] <svg-file> <id-map-file> [output-file]"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns its exit status.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mapextract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}

	var (
		format   = fs.String("format", "json", "output format: json, json-compact, yaml, msgpack")
		verbose  = fs.Bool("v", false, "verbose logging")
		strict   = fs.Bool("strict", false, "require every layer to be present")
		parallel = fs.Bool("parallel", false, "run layer passes concurrently")
		suffix   = fs.String("suffix", mapper.DefaultCenterSuffix, "suffix stripped from center ids")
		pattern  = fs.String("pattern", mapper.DefaultImpassablePattern, "style pattern marking impassable provinces")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 2 || fs.NArg() > 3 {
		fs.Usage()
		return 2
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	log, err := logging.New(level, "development")
	if err != nil {
		fmt.Fprintf(stderr, "init logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	f, err := output.ParseFormat(*format)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	svgPath, idPath := fs.Arg(0), fs.Arg(1)

	ids, err := idmap.LoadFile(idPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	src, err := os.Open(svgPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer src.Close()

	log.Info("extracting map", zap.String("svg", svgPath), zap.Int("id_mappings", len(ids)))

	p := mapper.New(mapper.Options{
		CenterSuffix:      *suffix,
		ImpassablePattern: *pattern,
		Strict:            *strict,
		Parallel:          *parallel,
	})
	m, err := p.Process(bufio.NewReader(src), ids)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	s := m.Summary()
	log.Info("map extracted",
		zap.Float64("width", m.Width),
		zap.Float64("height", m.Height),
		zap.Int("provinces", s.Provinces),
		zap.Int("supply_centers", s.SupplyCenters),
		zap.Int("labels", s.Labels),
		zap.Int("borders", s.Borders),
		zap.Int("impassable", s.Impassable))

	if fs.NArg() < 3 {
		if err := output.Encode(stdout, m, f); err != nil {
			fmt.Fprintf(stderr, "error: write output: %v\n", err)
			return 1
		}
		return 0
	}

	if err := writeFile(fs.Arg(2), m, f); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	log.Info("output written", zap.String("path", fs.Arg(2)), zap.String("format", string(f)))
	return 0
}

// createOutput opens the output file.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeFile encodes m into path. A failed close is reported like a failed
// write, since buffered data may not have reached the file.
func writeFile(path string, m *models.Map, f output.Format) error {
	dst, err := createOutput(path)
	if err != nil {
		return err
	}
	if err := output.Encode(dst, m, f); err != nil {
		dst.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}
