// Package testkit generates deterministic binary-classification datasets
// whose features have known separability shapes.
package testkit

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Shape selects how a generated feature relates to the label.
type Shape int

const (
	// Monotone rises with the row index; tails are class 0 (low) and class 1 (high).
	Monotone Shape = iota
	// Reversed falls with the row index; tails are class 1 (low) and class 0 (high).
	Reversed
	// HalfTail has a pure class-0 low tail and an evenly mixed high tail.
	HalfTail
	// Interior places class 0 in a narrow central band and class 1 at both extremes.
	Interior
	// Constant carries no signal at all.
	Constant
	// Noise draws uniform values from the kit's seeded source.
	Noise
)

func (s Shape) String() string {
	switch s {
	case Monotone:
		return "monotone"
	case Reversed:
		return "reversed"
	case HalfTail:
		return "half_tail"
	case Interior:
		return "interior"
	case Constant:
		return "constant"
	case Noise:
		return "noise"
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// Config configures the dataset generator
type Config struct {
	Rows   int     // must be a positive multiple of 8
	Shapes []Shape // one feature column per shape
	Seed   int64
}

// DefaultConfig returns a 40-row dataset with one feature of each deterministic shape
func DefaultConfig() Config {
	return Config{
		Rows:   40,
		Shapes: []Shape{Monotone, HalfTail, Interior, Constant},
		Seed:   42,
	}
}

// Dataset is a generated feature matrix with its labels.
type Dataset struct {
	X      *mat.Dense
	Y      []float64
	Shapes []Shape
}

// Generate builds the dataset. Rows [0, Rows/2) are class 0, the rest class 1.
func Generate(cfg Config) (*Dataset, error) {
	if cfg.Rows <= 0 || cfg.Rows%8 != 0 {
		return nil, fmt.Errorf("rows must be a positive multiple of 8, got %d", cfg.Rows)
	}
	if len(cfg.Shapes) == 0 {
		return nil, fmt.Errorf("at least one shape is required")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	n := cfg.Rows
	half := n / 2

	y := make([]float64, n)
	for i := half; i < n; i++ {
		y[i] = 1
	}

	x := mat.NewDense(n, len(cfg.Shapes), nil)
	for j, shape := range cfg.Shapes {
		col, err := column(shape, n, rng)
		if err != nil {
			return nil, err
		}
		x.SetCol(j, col)
	}

	return &Dataset{X: x, Y: y, Shapes: cfg.Shapes}, nil
}

func column(shape Shape, n int, rng *rand.Rand) ([]float64, error) {
	half := n / 2
	quarter := half / 2
	col := make([]float64, n)

	for i := range col {
		class1 := i >= half
		k := i % half
		switch shape {
		case Monotone:
			col[i] = float64(i)
		case Reversed:
			col[i] = float64(n - i)
		case HalfTail:
			// low quarter pure class 0, class-1 middle, top half interleaved
			switch {
			case !class1 && k < quarter:
				col[i] = float64(k)
			case class1 && k < quarter:
				col[i] = 1000 + float64(k)
			case !class1:
				col[i] = 10000 + 2*float64(k-quarter)
			default:
				col[i] = 10000 + 2*float64(k-quarter) + 1
			}
		case Interior:
			switch {
			case !class1:
				col[i] = 1000 + float64(k)
			case k%2 == 0:
				col[i] = -1000 - float64(k)
			default:
				col[i] = 3000 + float64(k)
			}
		case Constant:
			col[i] = 1
		case Noise:
			col[i] = rng.Float64()
		default:
			return nil, fmt.Errorf("unknown shape %v", shape)
		}
	}
	return col, nil
}

// RandomLabels draws n binary labels, guaranteeing both classes are present.
func RandomLabels(rng *rand.Rand, n int) []float64 {
	y := make([]float64, n)
	for i := range y {
		y[i] = float64(rng.Intn(2))
	}
	if n >= 2 {
		y[0], y[n-1] = 0, 1
	}
	return y
}

// RandomMatrix draws an n x f matrix of standard normal values.
func RandomMatrix(rng *rand.Rand, n, f int) *mat.Dense {
	data := make([]float64, n*f)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	return mat.NewDense(n, f, data)
}
