package recovery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/ostafen/chkrecover/internal/format"
)

// Scan identifies every file under src and names it as a flat rename would,
// without touching the filesystem. Names are unique across the result.
// Unknown files are reported with Outcome Unknown and no Target.
func Scan(ctx context.Context, src string, registry *format.Registry, window int, log *slog.Logger) ([]Result, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	opts := Options{Src: src, Rename: true}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	files, err := collect(src, "", "", log)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(files))
	exists := func(path string) bool { return taken[path] }

	results := make([]Result, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := Result{Source: f.path, Size: f.size}

		sample, err := format.ReadSampleFile(f.path, window)
		if err != nil {
			res.Outcome, res.Err = Failed, err
			results = append(results, res)
			continue
		}

		res.Match, err = registry.IdentifySample(sample)
		switch {
		case errors.Is(err, format.ErrUnknownFormat):
			res.Outcome = Unknown
		case err != nil:
			res.Outcome, res.Err = Failed, err
		default:
			res.Outcome = Recovered
			name := filepath.Base(f.path)
			if !HasExt(name, res.Match.Ext) {
				name = TargetName(name, res.Match.Ext)
			}
			res.Target = UniquePath("", name, exists)
			taken[res.Target] = true
		}
		results = append(results, res)
	}
	return results, nil
}
