package maneuver

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a batch of maneuvers for reporting.
type Summary struct {
	Count       int
	Tacks       int
	Gybes       int
	MeanBSPLoss float64
	StdBSPLoss  float64
	MeanTurning float64
	FlyingRate  float64 // fraction of maneuvers entered fully foiling
}

// Summarize computes aggregate statistics over a batch of maneuvers.
func Summarize(maneuvers []Maneuver) Summary {
	s := Summary{Count: len(maneuvers)}
	if len(maneuvers) == 0 {
		return s
	}

	losses := make([]float64, 0, len(maneuvers))
	turnings := make([]float64, 0, len(maneuvers))
	flying := 0
	for _, m := range maneuvers {
		switch m.Type {
		case Tack:
			s.Tacks++
		case Gybe:
			s.Gybes++
		}
		losses = append(losses, m.BSPLoss)
		turnings = append(turnings, m.TurningTime)
		if m.Flying {
			flying++
		}
	}

	s.MeanBSPLoss = stat.Mean(losses, nil)
	s.StdBSPLoss = stat.StdDev(losses, nil)
	s.MeanTurning = stat.Mean(turnings, nil)
	s.FlyingRate = float64(flying) / float64(len(maneuvers))
	return s
}

// FeatureMatrix is the preprocessed numeric view of a maneuver batch, ready
// for downstream analysis: z-scored numeric columns followed by one-hot
// type and entry-tack columns. Model training itself is out of scope here.
type FeatureMatrix struct {
	Columns []string
	Rows    [][]float64
	// Target is the speed loss per maneuver, the quantity the analysis
	// plan ranks features against.
	Target []float64
}

// numericFeatures lists the z-scored columns, in order.
var numericFeatures = []string{
	"entry_bsp", "exit_bsp", "entry_twa", "exit_twa",
	"max_yaw_rate", "turning_time", "max_rudder_angle", "turn_min_rh",
}

// Features builds the preprocessed matrix. Missing numerics (NaN) are
// imputed with the column mean before standardization.
func Features(maneuvers []Maneuver) FeatureMatrix {
	fm := FeatureMatrix{
		Columns: append(append([]string{}, numericFeatures...),
			"type_tack", "type_gybe", "entry_tack_port", "entry_tack_starboard", "flying"),
	}
	if len(maneuvers) == 0 {
		return fm
	}

	n := len(maneuvers)
	cols := make([][]float64, len(numericFeatures))
	for c := range cols {
		cols[c] = make([]float64, n)
	}
	for i, m := range maneuvers {
		vals := []float64{
			m.EntryBSP, m.ExitBSP, m.EntryTWA, m.ExitTWA,
			m.MaxYawRate, m.TurningTime, m.MaxRudderAngle, m.TurnMinRH,
		}
		for c, v := range vals {
			cols[c][i] = v
		}
		fm.Target = append(fm.Target, m.BSPLoss)
	}

	for c := range cols {
		imputeMean(cols[c])
		standardize(cols[c])
	}

	fm.Rows = make([][]float64, n)
	for i, m := range maneuvers {
		row := make([]float64, 0, len(fm.Columns))
		for c := range cols {
			row = append(row, cols[c][i])
		}
		row = append(row, oneHot(m.Type == Tack), oneHot(m.Type == Gybe))
		row = append(row, oneHot(m.EntryTack == "port"), oneHot(m.EntryTack == "starboard"))
		row = append(row, oneHot(m.Flying))
		fm.Rows[i] = row
	}
	return fm
}

func oneHot(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// imputeMean replaces NaNs with the mean of the finite values in place.
func imputeMean(col []float64) {
	var sum float64
	var n int
	for _, v := range col {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		for i := range col {
			col[i] = 0
		}
		return
	}
	mean := sum / float64(n)
	for i, v := range col {
		if math.IsNaN(v) {
			col[i] = mean
		}
	}
}

// standardize z-scores a column in place. Constant columns become zeros.
func standardize(col []float64) {
	mean, std := stat.MeanStdDev(col, nil)
	if std == 0 || math.IsNaN(std) {
		for i := range col {
			col[i] = 0
		}
		return
	}
	for i := range col {
		col[i] = (col[i] - mean) / std
	}
}
