package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ironsheep/prime-image/internal/config"
	"github.com/ironsheep/prime-image/internal/imaging"
	"github.com/ironsheep/prime-image/internal/render"
	"github.com/ironsheep/prime-image/internal/search"
)

func newConvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <image>",
		Short: "Convert an image into a nearby prime and print it as a grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyConvertFlags(cmd, cfg); err != nil {
				return err
			}
			return runConvert(cmd.Context(), cmd.OutOrStdout(), cfg, args[0])
		},
	}

	f := cmd.Flags()
	f.Int("width", 0, "maximum grid width in digits (default 30)")
	f.Int("height", 0, "maximum grid height in digits (default 60)")
	f.Int("modulus", 0, "intensity modulus, 10 or 9 (default 10)")
	f.String("grayscale", "", "grayscale conversion: average, luminance or lightness")
	f.Bool("no-dither", false, "disable Floyd-Steinberg error diffusion")
	f.Int("levels", 0, "gray levels kept after diffusion, 2-256")
	f.Float64("contrast", 0, "contrast adjustment in [-1, 1]")
	f.String("region", "", "convert only a named region, e.g. center or top-half")
	f.String("mode", "", "search mode: random (nearby prime) or next (next prime)")
	f.Int("rounds", 0, "Miller-Rabin witness rounds (default 2)")
	f.Int("positions", 0, "digits rewritten per trial (default 1)")
	f.Bool("free-leading", false, "allow the search to change the first digit")
	f.Int("workers", 0, "parallel search goroutines (default 1)")
	f.Int("max-iterations", 0, "give up after this many trials (0 = unbounded)")
	f.Duration("timeout", 0, "give up after this long (0 = no limit)")
	f.Uint64("seed", 0, "random seed for a reproducible single-worker search")
	f.String("html", "", "also write the prime as an HTML page to this file")
	f.String("png", "", "also write the prime as a PNG image to this file")
	f.String("shade", "", "ANSI shading of the console grid: auto, always or never")
	return cmd
}

// applyConvertFlags overrides configuration with the flags the user set.
func applyConvertFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	setInt := func(name string, dst *int) {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	setString := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}

	setInt("width", &cfg.Grid.Width)
	setInt("height", &cfg.Grid.Height)
	setInt("modulus", &cfg.Grid.Modulus)
	setInt("levels", &cfg.Grid.Levels)
	setString("grayscale", &cfg.Grid.Grayscale)
	setString("region", &cfg.Grid.Region)
	setString("mode", &cfg.Search.Mode)
	setInt("rounds", &cfg.Search.Rounds)
	setInt("positions", &cfg.Search.Positions)
	setInt("workers", &cfg.Search.Workers)
	setInt("max-iterations", &cfg.Search.MaxIterations)
	setString("html", &cfg.Output.HTML)
	setString("png", &cfg.Output.PNG)
	setString("shade", &cfg.Output.Shade)

	if f.Changed("no-dither") {
		noDither, _ := f.GetBool("no-dither")
		cfg.Grid.Dither = boolPtr(!noDither)
	}
	if f.Changed("free-leading") {
		free, _ := f.GetBool("free-leading")
		cfg.Search.PreserveLeading = boolPtr(!free)
	}
	if f.Changed("contrast") {
		cfg.Grid.Contrast, _ = f.GetFloat64("contrast")
	}
	if f.Changed("timeout") {
		cfg.Search.Timeout, _ = f.GetDuration("timeout")
	}
	if f.Changed("seed") {
		cfg.Search.Seed, _ = f.GetUint64("seed")
	}
	return cfg.Validate()
}

func runConvert(ctx context.Context, out io.Writer, cfg *config.Config, path string) error {
	img, err := imaging.LoadFile(path)
	if err != nil {
		return err
	}

	opts := cfg.ImagingOptions()
	if opts.Region, err = imaging.ResolveRegion(img, cfg.Grid.Region); err != nil {
		return err
	}
	ex, err := imaging.Extract(img, opts)
	if err != nil {
		return err
	}
	log.Printf("Converted %s to a %dx%d grid (%s digits)", path, ex.Width, ex.Height, humanize.Comma(int64(ex.Digits.Len())))

	shade := shadeOutput(cfg.Output.Shade, out)
	if shade {
		if tw := render.TerminalWidth(os.Stdout); tw > 0 && ex.Width > tw {
			log.Printf("Grid is %d columns but the terminal has %d; rows will wrap", ex.Width, tw)
		}
	}
	if cfg.Debug() {
		if err := render.Text(out, ex.Digits, ex.Width, ex.Height, render.TextOptions{Shade: shade}); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	if cfg.Search.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Search.Timeout)
		defer cancel()
	}

	var res *search.Result
	searchOpts := cfg.SearchOptions(log.Default())
	if cfg.Search.Mode == "next" {
		res, err = search.NextPrime(ctx, ex.Digits, searchOpts)
	} else {
		res, err = search.Search(ctx, ex.Digits, searchOpts)
	}
	if err != nil {
		return err
	}

	caption := describe(res)
	log.Print(caption)

	if err := render.Text(out, res.Digits, ex.Width, ex.Height, render.TextOptions{Shade: shade, ShowNumber: true}); err != nil {
		return err
	}
	if cfg.Output.HTML != "" {
		if err := writeFile(cfg.Output.HTML, func(w io.Writer) error {
			return render.HTML(w, res.Digits, ex.Width, ex.Height, render.HTMLOptions{Caption: caption})
		}); err != nil {
			return err
		}
		log.Printf("Wrote %s", cfg.Output.HTML)
	}
	if cfg.Output.PNG != "" {
		if err := writeFile(cfg.Output.PNG, func(w io.Writer) error {
			return render.PNG(w, res.Digits, ex.Width, ex.Height, render.PNGOptions{Scale: cfg.Output.PNGScale, Shade: true})
		}); err != nil {
			return err
		}
		log.Printf("Wrote %s", cfg.Output.PNG)
	}
	return nil
}

// describe summarizes a search result in one line.
func describe(res *search.Result) string {
	if res.Iterations == 0 && len(res.Changed) == 0 {
		return fmt.Sprintf("The %s-digit number is already prime", humanize.Comma(int64(res.Digits.Len())))
	}
	return fmt.Sprintf("Found a %s-digit prime after %s trials in %s, %s changed",
		humanize.Comma(int64(res.Digits.Len())),
		humanize.Comma(int64(res.Iterations)),
		res.Elapsed.Round(time.Millisecond),
		pluralDigits(len(res.Changed)))
}

func pluralDigits(n int) string {
	if n == 1 {
		return "1 digit"
	}
	return fmt.Sprintf("%d digits", n)
}

// shadeOutput decides whether the console grid gets ANSI shading.
func shadeOutput(mode string, out io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := out.(*os.File)
	return ok && render.IsTerminal(f)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func boolPtr(b bool) *bool {
	return &b
}
