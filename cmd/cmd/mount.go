// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/ostafen/chkrecover/internal/format"
	"github.com/ostafen/chkrecover/internal/fuse"
	"github.com/ostafen/chkrecover/internal/logger"
	"github.com/ostafen/chkrecover/internal/recovery"
	"github.com/spf13/cobra"
)

func DefineMountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount <src>",
		Short: "Preview recovered files through a read-only FUSE mount",
		Long: `The 'mount' command identifies every file of a source directory and exposes the recognised ones,
under their recovered names, in a flat read-only directory. Nothing is copied: reads are served from the
source fragments. Unmount with Ctrl+C.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunMount,
	}

	cmd.Flags().StringP("mountpoint", "m", "", "Path to the directory where the filesystem will be mounted. If not specified, a default will be generated.")
	cmd.Flags().StringSlice("signatures", nil, "YAML files with additional signatures")
	return cmd
}

func RunMount(cmd *cobra.Command, args []string) error {
	src := args[0]

	registry, err := buildRegistry(cmd)
	if err != nil {
		return err
	}

	mountpoint, _ := cmd.Flags().GetString("mountpoint")
	if mountpoint == "" {
		mountpoint = getMountpoint(src)
	}

	console := logger.New(os.Stdout, logger.InfoLevel)
	console.Infof("Identifying files in %s...", src)

	results, err := recovery.Scan(cmd.Context(), src, registry, format.DefaultWindowSize, nil)
	if err != nil {
		return err
	}
	return fuse.Mount(mountpoint, mountEntries(results), console)
}

// getMountpoint derives a mountpoint name from the source directory.
func getMountpoint(src string) string {
	base := filepath.Base(filepath.Clean(src))
	if base == "." || base == string(filepath.Separator) {
		base = "chkrecover"
	}
	return base + "_mnt"
}

func mountEntries(results []recovery.Result) []fuse.Entry {
	entries := make([]fuse.Entry, 0, len(results))
	for _, res := range results {
		if res.Outcome != recovery.Recovered {
			continue
		}

		finfo, err := os.Stat(res.Source)
		if err != nil {
			continue
		}

		entries = append(entries, fuse.Entry{
			Name:    res.Target,
			Path:    res.Source,
			Size:    uint64(res.Size),
			ModTime: finfo.ModTime(),
		})
	}
	return entries
}
