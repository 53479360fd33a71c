package adapter

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// SignalProfile is the statistical fingerprint of one data stream,
// computed by Analyze.
type SignalProfile struct {
	Length    int
	Min       float64
	Max       float64
	Mean      float64
	Variance  float64
	StdDev    float64
	Skewness  float64
	Sparsity  float64
	Entropy   float64
	Label     string
}

// Thresholds are the adaptive, profile-derived limits that govern the rest
// of the ingest pipeline's energy discipline.
type Thresholds struct {
	System1SimThresh float64
	CriticAccept     float64
	DeepCostBias     float64
}

// Analyze computes a SignalProfile for payload and the Thresholds derived
// from it. datasetType "tensor" or "numeric" parses payload as real
// numbers separated by any run of non-numeric characters; any other type
// falls back to the raw byte codes of payload.
func Analyze(cfg Config, datasetType, payload string) (SignalProfile, Thresholds) {
	values := sampleValues(datasetType, payload)
	profile := profileOf(values)
	thresholds := Thresholds{
		System1SimThresh: clamp(cfg.S1Base-profile.Entropy*cfg.EntropyWeight+profile.Sparsity*cfg.SparsityWeight, cfg.S1Min, cfg.S1Max),
		CriticAccept:     clamp(cfg.CriticBase+profile.Entropy*cfg.EntropyWeight+math.Abs(profile.Skewness)*cfg.SkewWeight, cfg.CriticMin, cfg.CriticMax),
		DeepCostBias:     clamp(cfg.DeepBase+profile.Entropy*cfg.EntropyWeight+profile.Sparsity*cfg.SparsityWeight, cfg.DeepMin, cfg.DeepMax),
	}
	return profile, thresholds
}

// sampleValues extracts the numeric sample a profile is computed over:
// parsed reals for tensor/numeric payloads, raw byte codes otherwise.
func sampleValues(datasetType, payload string) []float64 {
	switch strings.ToLower(strings.TrimSpace(datasetType)) {
	case "tensor", "numeric":
		return parseNumerics(payload)
	default:
		return byteCodes(payload)
	}
}

// parseNumerics splits payload on runs of non-numeric characters and
// parses each run as a float64, skipping runs that don't parse.
func parseNumerics(payload string) []float64 {
	isNumeric := func(r rune) bool {
		return (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E'
	}
	fields := strings.FieldsFunc(payload, func(r rune) bool { return !isNumeric(r) })
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func byteCodes(payload string) []float64 {
	b := []byte(payload)
	out := make([]float64, len(b))
	for i, c := range b {
		out[i] = float64(c)
	}
	return out
}

const sparsityEpsilon = 1e-9

// profileOf computes the SignalProfile's statistics from a numeric sample.
func profileOf(values []float64) SignalProfile {
	if len(values) == 0 {
		return SignalProfile{Label: "balanced"}
	}

	mn, mx := values[0], values[0]
	zeros := 0
	for _, v := range values {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
		if math.Abs(v) <= sparsityEpsilon {
			zeros++
		}
	}

	mean := stat.Mean(values, nil)
	variance := stat.Variance(values, nil)
	stddev := math.Sqrt(variance)
	skew := 0.0
	if stddev > sparsityEpsilon {
		skew = stat.Skew(values, nil)
	}
	sparsity := float64(zeros) / float64(len(values))
	entropy := bucketEntropy(values)

	return SignalProfile{
		Length:   len(values),
		Min:      mn,
		Max:      mx,
		Mean:     mean,
		Variance: variance,
		StdDev:   stddev,
		Skewness: skew,
		Sparsity: sparsity,
		Entropy:  entropy,
		Label:    categoricalLabel(sparsity, skew, entropy),
	}
}

// bucketEntropy buckets values by their integer floor and returns the
// Shannon entropy of the resulting distribution, normalized by
// log2(bucket count) so the result always lies in [0, 1].
func bucketEntropy(values []float64) float64 {
	buckets := make(map[int]int, len(values))
	for _, v := range values {
		buckets[int(math.Floor(v))]++
	}
	if len(buckets) <= 1 {
		return 0
	}
	n := float64(len(values))
	h := 0.0
	for _, c := range buckets {
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	return h / math.Log2(float64(len(buckets)))
}

func categoricalLabel(sparsity, skew, entropy float64) string {
	switch {
	case sparsity > 0.5:
		return "sparse"
	case math.Abs(skew) > 1:
		return "skewed"
	case entropy > 0.85:
		return "high_entropy"
	default:
		return "balanced"
	}
}
