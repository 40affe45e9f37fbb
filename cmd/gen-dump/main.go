// gen-dump writes a synthetic galaxy dump in the pretty-printed array layout
// ringscan expects: array tokens on their own lines, every non-final element
// ending with a trailing comma, and a mix of single-line and multi-line
// records. The number of qualifying records is exact, which makes generated
// dumps usable as test fixtures.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

type system struct {
	Name       string  `json:"name"`
	Population int64   `json:"population"`
	Coords     *coords `json:"coords,omitempty"`
	BodyCount  int     `json:"bodyCount"`
	Bodies     []body  `json:"bodies"`
}

type coords struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type body struct {
	Name           string  `json:"name"`
	Rings          []ring  `json:"rings"`
	IsLandable     bool    `json:"isLandable"`
	AtmosphereType *string `json:"atmosphereType"`
}

type ring struct {
	Name string `json:"name"`
}

var atmospheres = []string{"Thin", "Thick", "Hot thick", "No atmosphere"}

func main() {
	var (
		outPath   = flag.String("out", "testdata/galaxy.json", "Output file")
		count     = flag.Int("count", 1000, "Number of systems")
		matchRate = flag.Float64("match-rate", 0.03, "Fraction of systems that qualify")
		seed      = flag.Int64("seed", 42, "RNG seed")
	)
	flag.Parse()

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: "15:04:05",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))

	f, err := os.Create(*outPath)
	if err != nil {
		logger.Error("create output", "err", err)
		os.Exit(1)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	rng := rand.New(rand.NewSource(*seed))

	qualifying := int(math.Round(float64(*count) * *matchRate))
	if err := writeDump(w, rng, *count, qualifying); err != nil {
		logger.Error("write dump", "err", err)
		os.Exit(1)
	}
	if err := w.Flush(); err != nil {
		logger.Error("flush output", "err", err)
		os.Exit(1)
	}

	logger.Info("dump written", "out", *outPath, "systems", *count, "qualifying", qualifying)
}

func writeDump(w *bufio.Writer, rng *rand.Rand, count, qualifying int) error {
	fmt.Fprintln(w, "[")
	stride := 1
	if qualifying > 0 {
		stride = max(count/qualifying, 1)
	}
	produced := 0
	for i := 0; i < count; i++ {
		// Spread qualifying systems evenly through the file.
		qualify := produced < qualifying && i%stride == 0
		if qualify {
			produced++
		}
		sys := makeSystem(rng, i, qualify)

		var text []byte
		var err error
		if rng.Intn(2) == 0 {
			text, err = json.Marshal(sys)
		} else {
			text, err = json.MarshalIndent(sys, "", "  ")
		}
		if err != nil {
			return err
		}
		if _, err := w.Write(text); err != nil {
			return err
		}
		if i < count-1 {
			if _, err := w.WriteString(","); err != nil {
				return err
			}
		}
		if _, err := w.WriteString("\n"); err != nil {
			return err
		}
	}
	fmt.Fprintln(w, "]")
	return nil
}

func makeSystem(rng *rand.Rand, i int, qualify bool) system {
	sys := system{
		Name: fmt.Sprintf("Synth %05d", i),
		Coords: &coords{
			X: rng.Float64()*2000 - 1000,
			Y: rng.Float64()*2000 - 1000,
			Z: rng.Float64()*2000 - 1000,
		},
	}

	if qualify {
		atmo := atmospheres[rng.Intn(len(atmospheres))]
		sys.Bodies = []body{
			// A near miss first so first-qualifying-wins gets exercised.
			{Name: sys.Name + " 1", Rings: []ring{}, IsLandable: true, AtmosphereType: &atmo},
			{Name: sys.Name + " 2", Rings: []ring{{Name: sys.Name + " 2 A Ring"}}, IsLandable: true, AtmosphereType: &atmo},
		}
		sys.BodyCount = len(sys.Bodies)
		return sys
	}

	// Pick one reason to disqualify.
	switch rng.Intn(4) {
	case 0:
		sys.Population = rng.Int63n(1_000_000) + 1
		sys.Bodies = []body{{Name: sys.Name + " 1"}}
	case 1:
		sys.Coords = nil
		sys.Bodies = []body{{Name: sys.Name + " 1"}}
	case 2:
		// No bodies at all.
	default:
		atmo := atmospheres[rng.Intn(len(atmospheres))]
		sys.Bodies = []body{
			{Name: sys.Name + " 1", Rings: []ring{{Name: "R"}}, IsLandable: false, AtmosphereType: &atmo},
			{Name: sys.Name + " 2", Rings: nil, IsLandable: true, AtmosphereType: &atmo},
			{Name: sys.Name + " 3", Rings: []ring{{Name: "R"}}, IsLandable: true, AtmosphereType: nil},
		}
	}
	sys.BodyCount = len(sys.Bodies)
	return sys
}
