package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ostafen/chkrecover/internal/format"
	"github.com/ostafen/chkrecover/internal/logger"
	"github.com/ostafen/chkrecover/internal/metadata"
	"github.com/spf13/cobra"
)

func DefineIdentifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "identify <file>...",
		Short:        "Detect the type of one or more files",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunIdentify,
	}

	cmd.Flags().StringSlice("signatures", nil, "YAML files with additional signatures")
	return cmd
}

func RunIdentify(cmd *cobra.Command, args []string) error {
	registry, err := buildRegistry(cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	console := logger.New(w, logger.InfoLevel)
	for _, path := range args {
		identifyFile(w, console, registry, path)
	}
	return nil
}

func identifyFile(w io.Writer, console *logger.Logger, registry *format.Registry, path string) {
	sample, err := format.ReadSampleFile(path, format.DefaultWindowSize)
	if err != nil {
		fmt.Fprintf(w, "%s: %s\n", path, console.Bad(err))
		return
	}

	m, err := registry.IdentifySample(sample)
	if errors.Is(err, format.ErrUnknownFormat) {
		fmt.Fprintf(w, "%s: %s\n", path, console.Note("unknown"))
		return
	}
	if err != nil {
		fmt.Fprintf(w, "%s: %s\n", path, console.Bad(err))
		return
	}

	fmt.Fprintf(w, "%s: %s\n", path, console.Good(m.Ext))
	fmt.Fprintf(w, "  description: %s\n", m.Signature.Description)
	fmt.Fprintf(w, "  category:    %s\n", m.Category())
	fmt.Fprintf(w, "  signature:   %s\n", m.MagicHex())
	fmt.Fprintf(w, "  size:        %s\n", humanize.IBytes(uint64(sample.Size)))
	if !m.TrailerOK {
		fmt.Fprintf(w, "  trailer:     %s\n", console.Bad("missing, file looks truncated"))
	}

	md, err := metadata.Extract(path, m.Kind())
	if err != nil {
		fmt.Fprintf(w, "  metadata:    %s\n", console.Bad(err))
	}
	printMetadata(w, md)
}

func printMetadata(w io.Writer, md metadata.Metadata) {
	if !md.CreationTime.IsZero() {
		fmt.Fprintf(w, "  created:     %s (%s)\n", md.CreationTime.Format(time.RFC3339), md.TimeSource)
	}
	if md.Format != "" {
		fmt.Fprintf(w, "  format:      %s\n", md.Format)
	}
	if md.Width > 0 || md.Height > 0 {
		fmt.Fprintf(w, "  dimensions:  %dx%d\n", md.Width, md.Height)
	}
	if md.Duration > 0 {
		fmt.Fprintf(w, "  duration:    %s\n", md.Duration.Round(time.Millisecond))
	}
	if md.Pages > 0 {
		fmt.Fprintf(w, "  pages:       %d\n", md.Pages)
	}
	if md.Entries > 0 {
		fmt.Fprintf(w, "  entries:     %d\n", md.Entries)
	}
}

func buildRegistry(cmd *cobra.Command) (*format.Registry, error) {
	paths, _ := cmd.Flags().GetStringSlice("signatures")

	sigs, err := format.LoadSignatures(paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load signatures: %w", err)
	}
	return format.BuildRegistry(sigs...), nil
}
