package recovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ostafen/chkrecover/internal/format"
	"github.com/ostafen/chkrecover/internal/logger"
	"github.com/ostafen/chkrecover/internal/metadata"
	"github.com/ostafen/chkrecover/pkg/pbar"
)

// Outcome is what happened to one source file.
type Outcome int

const (
	Recovered Outcome = iota
	Unknown
	Skipped
	Duplicate
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Recovered:
		return "recovered"
	case Unknown:
		return "unknown"
	case Skipped:
		return "skipped"
	case Duplicate:
		return "duplicate"
	case Failed:
		return "failed"
	}
	return "invalid"
}

// Result describes the decision taken for one source file.
type Result struct {
	Source  string
	Target  string // empty unless Recovered or Duplicate
	Size    int64
	Outcome Outcome
	Match   format.Match
	Meta    metadata.Metadata
	Reason  string
	Err     error
}

// Stats summarizes a run.
type Stats struct {
	Processed   int
	Recovered   int
	Unknown     int
	Skipped     int
	Duplicates  int
	Failed      int
	Bytes       int64 // size of the recovered files
	Duration    time.Duration
	Interrupted bool
	LogFile     string
}

func (s *Stats) add(res Result) {
	s.Processed++
	switch res.Outcome {
	case Recovered:
		s.Recovered++
		s.Bytes += res.Size
	case Unknown:
		s.Unknown++
	case Skipped:
		s.Skipped++
	case Duplicate:
		s.Duplicates++
	case Failed:
		s.Failed++
	}
}

type recoverer struct {
	opts     Options
	registry *format.Registry
	log      *slog.Logger

	// claimed holds the targets picked during this run, so that dry runs
	// resolve collisions the same way real runs do.
	claimed map[string]bool
	digests map[string]string
}

// Run recovers every file under opts.Src, one at a time. Per-file failures
// are logged and counted; only setup problems are returned as errors.
// Cancelling ctx stops the run before the next file.
func Run(ctx context.Context, opts Options) (Stats, error) {
	if err := opts.Validate(); err != nil {
		return Stats{}, err
	}

	sigs, err := format.LoadSignatures(opts.Signatures...)
	if err != nil {
		return Stats{}, err
	}
	registry := format.BuildRegistry(sigs...)

	if opts.LogFile == "" {
		opts.LogFile = DefaultLogPath(opts.Src, time.Now())
	}
	opts.LogFile = absPath(opts.LogFile)

	log, logFile, err := setupLogger(opts.LogFile, opts.LogLevel)
	if err != nil {
		return Stats{}, err
	}
	defer logFile.Close()

	if !opts.Rename && !opts.DryRun {
		if err := os.MkdirAll(opts.Dst, 0755); err != nil {
			return Stats{}, fmt.Errorf("failed to create destination %q: %w", opts.Dst, err)
		}
	}

	console := logger.New(opts.out(), logger.InfoLevel)

	dst := opts.Dst
	if opts.Rename {
		dst = ""
	}
	files, err := collect(opts.Src, dst, opts.LogFile, log)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to walk %q: %w", opts.Src, err)
	}

	printHeader(console, &opts, registry, len(files))
	log.Info("recovery started",
		"src", absPath(opts.Src),
		"dst", dst,
		"rename", opts.Rename,
		"dry_run", opts.DryRun,
		"files", len(files),
		"signatures", len(registry.Signatures()),
	)

	r := &recoverer{
		opts:     opts,
		registry: registry,
		log:      log,
		claimed:  make(map[string]bool),
		digests:  make(map[string]string),
	}

	var bar *pbar.ProgressBarState
	if !opts.Quiet {
		bar = pbar.NewProgressBarState(opts.out(), len(files))
	}

	start := time.Now()
	stats := Stats{LogFile: opts.LogFile}

	for _, f := range files {
		if ctx.Err() != nil {
			stats.Interrupted = true
			log.Warn("recovery interrupted", "remaining", len(files)-stats.Processed)
			break
		}

		res := r.process(f)
		stats.add(res)
		r.report(res)

		if bar != nil {
			bar.Add(f.size, res.Outcome == Recovered)
			bar.Render(false)
		}
	}

	if bar != nil {
		bar.Render(true)
		bar.Finish()
	}

	stats.Duration = time.Since(start)
	log.Info("recovery finished",
		"processed", stats.Processed,
		"recovered", stats.Recovered,
		"unknown", stats.Unknown,
		"skipped", stats.Skipped,
		"duplicates", stats.Duplicates,
		"failed", stats.Failed,
		"bytes", stats.Bytes,
		"duration", stats.Duration,
		"interrupted", stats.Interrupted,
	)
	printSummary(console, stats)
	return stats, nil
}

func (r *recoverer) process(f candidate) Result {
	res := Result{Source: f.path, Size: f.size}
	name := filepath.Base(f.path)

	switch {
	case r.opts.OnlyCHK && !IsCHK(name):
		return r.skip(res, "not a .chk file")
	case r.opts.MinSize > 0 && f.size < r.opts.MinSize:
		return r.skip(res, "smaller than min size")
	case r.opts.MaxSize > 0 && f.size > r.opts.MaxSize:
		return r.skip(res, "larger than max size")
	}

	sample, err := format.ReadSampleFile(f.path, r.opts.Window)
	if err != nil {
		return r.fail(res, err)
	}

	res.Match, err = r.registry.IdentifySample(sample)
	if errors.Is(err, format.ErrUnknownFormat) {
		res.Outcome = Unknown
		return res
	}
	if err != nil {
		return r.fail(res, err)
	}

	ext := res.Match.Ext
	if r.opts.Rename && HasExt(name, ext) {
		return r.skip(res, "already named")
	}

	res.Meta, err = metadata.Extract(f.path, res.Match.Kind())
	if err != nil {
		r.log.Warn("metadata extraction failed", "path", f.path, "ext", ext, "err", err)
	}

	var digest string
	if r.opts.Dedupe {
		digest, err = hashFile(f.path)
		if err != nil {
			return r.fail(res, err)
		}
		if prev, ok := r.digests[digest]; ok {
			res.Outcome = Duplicate
			res.Target = prev
			return res
		}
	}

	targetName := name
	if !HasExt(name, ext) {
		targetName = TargetName(name, ext)
	}

	dir := filepath.Dir(f.path)
	if !r.opts.Rename {
		dir = r.opts.Dst
		if r.opts.GroupByYear {
			dir = YearDir(r.opts.Dst, res.Meta.Year())
		}
	}
	res.Target = UniquePath(dir, targetName, r.exists)

	if !r.opts.DryRun {
		if r.opts.Rename {
			err = moveFile(f.path, res.Target)
		} else {
			_, err = copyFile(f.path, res.Target)
		}
		if err != nil {
			res.Target = ""
			return r.fail(res, err)
		}
	}

	r.claimed[res.Target] = true
	if digest != "" {
		r.digests[digest] = res.Target
	}
	res.Outcome = Recovered
	return res
}

func (r *recoverer) exists(path string) bool {
	if r.claimed[path] {
		return true
	}
	_, err := os.Lstat(path)
	return err == nil
}

func (r *recoverer) skip(res Result, reason string) Result {
	res.Outcome = Skipped
	res.Reason = reason
	return res
}

func (r *recoverer) fail(res Result, err error) Result {
	res.Outcome = Failed
	res.Err = err
	return res
}

func (r *recoverer) report(res Result) {
	switch res.Outcome {
	case Recovered:
		action := "copied"
		if r.opts.Rename {
			action = "renamed"
		}
		if r.opts.DryRun {
			action = "would be " + action
		}
		r.log.Info("recovered",
			"path", res.Source,
			"target", res.Target,
			"action", action,
			"ext", res.Match.Ext,
			"desc", res.Match.Signature.Description,
			"category", res.Match.Category(),
			"magic", res.Match.MagicHex(),
			"size", res.Size,
			"meta", res.Meta,
		)
		if !res.Match.TrailerOK {
			r.log.Warn("file looks truncated", "path", res.Source, "ext", res.Match.Ext)
		}
	case Unknown:
		r.log.Warn("no matching signature", "path", res.Source, "size", res.Size)
	case Skipped:
		r.log.Info("skipped", "path", res.Source, "reason", res.Reason)
	case Duplicate:
		r.log.Info("duplicate content", "path", res.Source, "same_as", res.Target)
	case Failed:
		r.log.Error("failed to process file", "path", res.Source, "err", res.Err)
	}
}
