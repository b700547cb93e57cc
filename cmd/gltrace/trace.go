package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/gogpu/glgpu"
	"github.com/gogpu/glgpu/internal/gl/gltest"
)

// run traces every configured scenario on its own recording context and
// writes the report to w.
func run(cfg Config, w io.Writer) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	for _, name := range cfg.Scenarios {
		if err := trace(cfg, name, w); err != nil {
			return fmt.Errorf("gltrace: scenario %s: %w", name, err)
		}
	}
	return nil
}

func trace(cfg Config, name string, w io.Writer) error {
	sc := scenarios[name]
	ctx := gltest.New(cfg.Width, cfg.Height)
	s := &session{cfg: cfg, sched: &gltest.Scheduler{}}
	s.dev = glgpu.NewDevice(ctx, cfg.Width, cfg.Height, glgpu.WithScheduler(s.sched))
	defer s.dev.Destroy()

	frame, err := sc.setup(s)
	if err != nil {
		return err
	}
	ctx.Reset()
	for i := range cfg.Frames {
		frame(i)
	}

	fmt.Fprintf(w, "== %s: %s (%d frames, %dx%d)\n", name, sc.about, cfg.Frames, cfg.Width, cfg.Height)
	if cfg.Calls {
		for i, c := range ctx.Calls {
			fmt.Fprintf(w, "%5d  %s\n", i, c)
		}
	}
	writeHistogram(w, ctx.Histogram(), len(ctx.Calls))
	fmt.Fprintln(w)
	return nil
}

// writeHistogram prints call counts, most frequent first.
func writeHistogram(w io.Writer, hist map[string]int, total int) {
	names := make([]string, 0, len(hist))
	for name := range hist {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(hist[b], hist[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, name := range names {
		fmt.Fprintf(tw, "%d\t  %s\n", hist[name], name)
	}
	fmt.Fprintf(tw, "%d\t  total\n", total)
	tw.Flush()
}
