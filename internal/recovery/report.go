package recovery

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ostafen/chkrecover/internal/format"
	"github.com/ostafen/chkrecover/internal/logger"
)

func printHeader(console *logger.Logger, opts *Options, registry *format.Registry, numFiles int) {
	console.Info("Starting recovery operation...")
	console.Infof("Source: \t%s", absPath(opts.Src))

	switch {
	case opts.Rename:
		console.Infof("Mode: \trename in place")
	default:
		mode := "copy"
		if opts.GroupByYear {
			mode += ", grouped by year"
		}
		console.Infof("Destination: \t%s (%s)", absPath(opts.Dst), mode)
	}

	var flags []string
	if opts.DryRun {
		flags = append(flags, "dry-run")
	}
	if opts.Dedupe {
		flags = append(flags, "dedupe")
	}
	if opts.OnlyCHK {
		flags = append(flags, "only .chk")
	}
	if len(flags) > 0 {
		console.Infof("Options: \t%s", strings.Join(flags, ", "))
	}

	console.Infof("Output Log: \t%s", opts.LogFile)
	console.Infof("Matching %d files against %d signatures...", numFiles, registry.Len())
}

func printSummary(console *logger.Logger, s Stats) {
	if s.Interrupted {
		console.Warn("Recovery interrupted!")
	} else {
		console.Info("Recovery completed!")
	}

	console.Infof("Files processed: \t%d", s.Processed)
	console.Infof("Recovered: \t%s (%s)", console.Good(s.Recovered), humanize.Bytes(uint64(s.Bytes)))
	console.Infof("Unknown: \t%s", console.Note(s.Unknown))
	console.Infof("Skipped: \t%d", s.Skipped)
	if s.Duplicates > 0 {
		console.Infof("Duplicates: \t%d", s.Duplicates)
	}
	if s.Failed > 0 {
		console.Infof("Failed: \t%s", console.Bad(s.Failed))
	} else {
		console.Infof("Failed: \t%d", s.Failed)
	}
	console.Infof("Duration: \t%s", FormatDurationHMS(s.Duration))
	console.Infof("Detailed log: \t%s", s.LogFile)
}
