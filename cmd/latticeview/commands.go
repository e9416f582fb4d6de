package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/latticeview/internal/config"
	"github.com/Faultbox/latticeview/internal/engine/raster"
	"github.com/Faultbox/latticeview/internal/engine/scene"
	"github.com/Faultbox/latticeview/internal/engine/snapshot"
	"github.com/Faultbox/latticeview/internal/logger"
	"github.com/Faultbox/latticeview/internal/view"
	"github.com/Faultbox/latticeview/internal/viewer"
	"github.com/Faultbox/latticeview/pkg/elements"
	"github.com/Faultbox/latticeview/pkg/formats"
	"github.com/Faultbox/latticeview/pkg/lattice"
)

// reorder moves the leading positional arguments behind the flags so
// "render file.json -o x.png" parses like "render -o x.png file.json".
func reorder(args []string) []string {
	i := 0
	for i < len(args) && !strings.HasPrefix(args[i], "-") {
		i++
	}
	if i == 0 || i == len(args) {
		return args
	}
	out := append([]string(nil), args[i:]...)
	return append(out, args[:i]...)
}

func cmdRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	output := fs.String("o", "", "Output file (.png or .webp)")
	vf := registerViewFlags(fs)
	flags := config.RegisterFlags(fs)
	fs.Parse(reorder(args))

	if fs.NArg() < 1 {
		return errors.New("usage: latticeview render <file> [options]")
	}
	path := fs.Arg(0)

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Options()); err != nil {
		return err
	}
	defer logger.Sync()

	v, sc, err := setupView(cfg, path, *vf)
	if err != nil {
		return err
	}

	if err := v.Render(); err != nil {
		return err
	}
	img := sc.CaptureImage()

	var out string
	if *output != "" {
		out = *output
		err = snapshot.Save(img, out)
	} else {
		format, ferr := snapshot.ParseFormat(cfg.Output.Format)
		if ferr != nil {
			return ferr
		}
		prefix := cfg.Output.Prefix
		if prefix == "" {
			prefix = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		out, err = snapshot.NewCapture(cfg.Output.Dir, prefix, format).CaptureImage(img)
	}
	if err != nil {
		return err
	}

	logger.Info("rendered", zap.String("input", path), zap.String("output", out))
	fmt.Println(out)
	return nil
}

// viewFlags holds the view command flags.
type viewFlags struct {
	align, rotate, center, fit string
	wrap                       bool
}

func registerViewFlags(fs *flag.FlagSet) *viewFlags {
	vf := &viewFlags{}
	fs.StringVar(&vf.align, "align", "", "Alignments, e.g. up:c,right:b")
	fs.StringVar(&vf.rotate, "rotate", "", "Rotations x,y,z,deg separated by ;")
	fs.StringVar(&vf.center, "center", "", "Center target: COP, COC, index list or none")
	fs.StringVar(&vf.fit, "fit", "", "Fit target: full, index list or none")
	fs.BoolVar(&vf.wrap, "wrap", false, "Show periodic images")
	return vf
}

// setupView loads path into a new viewer and runs the view commands in
// order: wrap, align, rotate, center, fit.
func setupView(cfg *config.Config, path string, vf viewFlags) (*viewer.Viewer, *scene.Scene, error) {
	sc := scene.New(scene.Config{
		Width:      cfg.Canvas.Width,
		Height:     cfg.Canvas.Height,
		Background: cfg.Canvas.Background.NRGBA(),
	}, raster.New(cfg.Canvas.Supersample))
	v := viewer.New(sc, cfg.Styles())

	if !v.LoadFile(path) {
		return nil, nil, fmt.Errorf("could not load %s", path)
	}

	if vf.wrap {
		if err := v.Wrap(true); err != nil {
			return nil, nil, err
		}
	}

	if arg := firstNonEmpty(vf.align, cfg.View.Align); arg != "" {
		reqs, err := view.ParseAlignments(arg)
		if err != nil {
			return nil, nil, err
		}
		if err := v.Align(reqs); err != nil {
			return nil, nil, err
		}
	}

	if vf.rotate != "" {
		rots, err := view.ParseRotations(vf.rotate)
		if err != nil {
			return nil, nil, err
		}
		if err := v.Rotate(rots); err != nil {
			return nil, nil, err
		}
	}

	if c := firstNonEmpty(vf.center, cfg.View.Center); c != "" && !strings.EqualFold(c, "none") {
		target, err := view.ParseCenterTarget(c)
		if err != nil {
			return nil, nil, err
		}
		if err := v.Center(target); err != nil {
			return nil, nil, err
		}
	}

	fitArg := vf.fit
	if fitArg == "" && cfg.View.Fit {
		fitArg = "full"
	}
	if fitArg != "" && !strings.EqualFold(fitArg, "none") {
		target, err := viewer.ParseFitTarget(fitArg)
		if err != nil {
			return nil, nil, err
		}
		zoom, err := v.Fit(target, cfg.View.Margin)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("fitted", zap.Float64("zoom", zoom), zap.Float64("margin", cfg.View.Margin))
	}
	return v, sc, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(reorder(args))
	if fs.NArg() < 1 {
		return errors.New("usage: latticeview info <file>")
	}
	path := fs.Arg(0)

	doc, err := formats.LoadFile(path)
	if err != nil {
		return err
	}

	fmt.Printf("File:    %s\n", path)
	fmt.Printf("Kind:    %s\n", doc.Kind)
	switch doc.Kind {
	case formats.KindStructure:
		return printStructure(doc.Structure)
	case formats.KindZone:
		printZone(doc.Zone)
	}
	return nil
}

func printStructure(s *formats.Structure) error {
	variant, err := viewer.NewStructure(s)
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	var order []string
	for _, z := range s.Labels() {
		sym := elements.Symbol(z)
		if counts[sym] == 0 {
			order = append(order, sym)
		}
		counts[sym]++
	}
	var formula strings.Builder
	for _, sym := range order {
		formula.WriteString(sym)
		if counts[sym] > 1 {
			fmt.Fprintf(&formula, "%d", counts[sym])
		}
	}

	fmt.Printf("Formula: %s\n", formula.String())
	fmt.Printf("Atoms:   %d (%d displayed)\n", s.NumAtoms(), variant.NumAtoms())
	fmt.Printf("PBC:     %v\n", s.Periodicity())
	fmt.Printf("Wrap:    %s\n", s.WrapPolicy().Kind)

	b, ok := variant.Basis()
	if !ok {
		fmt.Println("Cell:    none")
		return nil
	}
	printBasis("abc", b)
	return nil
}

func printZone(z *formats.Zone) {
	points := 0
	for _, seg := range z.Segments {
		points += len(seg)
	}
	fmt.Printf("Edges:   %d segments, %d points\n", len(z.Segments), points)
	fmt.Printf("Kpoints: %d\n", len(z.KPoints))
	for _, k := range z.KPoints {
		fmt.Printf("  %-6s %v\n", k.Label, k.Point)
	}
	printBasis("b", z.ReciprocalBasis())
}

func printBasis(names string, b lattice.Basis) {
	label := func(i int) string {
		if len(names) == 3 {
			return string(names[i])
		}
		return fmt.Sprintf("%s%d", names, i+1)
	}
	lengths := b.Lengths()
	for i, v := range b.Vectors() {
		state := ""
		if b.Collapsed[i] {
			state = " (collapsed)"
		}
		fmt.Printf("  %-3s = %8.4f  [%8.4f %8.4f %8.4f]%s\n", label(i), lengths[i], v[0], v[1], v[2], state)
	}
	if !b.Invertible {
		fmt.Println("  basis is not invertible")
	}
}

func cmdValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	fs.Parse(reorder(args))
	if fs.NArg() < 1 {
		return errors.New("usage: latticeview validate <file>")
	}

	failed := 0
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		kind, err := formats.Validate(data, filepath.Ext(path))
		var verr *formats.ValidationError
		switch {
		case errors.As(err, &verr):
			failed++
			fmt.Printf("%s: invalid %s document\n", path, verr.Kind)
			for _, e := range verr.Errors {
				fmt.Printf("  - %s\n", e)
			}
		case err != nil:
			failed++
			fmt.Printf("%s: %v\n", path, err)
		default:
			fmt.Printf("%s: ok (%s)\n", path, kind)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents invalid", failed, fs.NArg())
	}
	return nil
}
