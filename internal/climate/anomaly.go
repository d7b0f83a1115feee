package climate

import "math"

// Default anomaly detection parameters. These match config defaults and
// are exported for callers that construct a detector without config.
const (
	DefaultAnomalyWindow     = 100
	DefaultAnomalyMinSamples = 10
	DefaultAnomalySigma      = 3.0
)

// AnomalyDetector flags readings that deviate from a sensor's recent
// history using a standard-score test per dimension.
type AnomalyDetector struct {
	window     int
	minSamples int
	sigma      float64
}

// NewAnomalyDetector creates a detector with the given parameters.
//
// window is how many recent readings form the baseline, minSamples is
// the minimum history size before the detector produces a verdict, and
// sigma is the outlier threshold in sample standard deviations.
func NewAnomalyDetector(window, minSamples int, sigma float64) *AnomalyDetector {
	if window <= 0 {
		window = DefaultAnomalyWindow
	}
	if minSamples < 2 {
		minSamples = DefaultAnomalyMinSamples
	}
	if sigma <= 0 {
		sigma = DefaultAnomalySigma
	}
	return &AnomalyDetector{window: window, minSamples: minSamples, sigma: sigma}
}

// Window returns how many recent readings the detector considers.
func (d *AnomalyDetector) Window() int { return d.window }

// IsAnomaly reports whether a reading is a statistical outlier against
// the sensor's recent history.
//
// history holds the most recent readings for the same sensor, newest
// first, excluding the reading under test. With fewer than minSamples
// readings the detector always reports false. A dimension is tested
// only when the history contains at least minSamples non-absent values
// for it. The reading is anomalous when any tested dimension deviates
// from the historical mean by more than sigma sample standard
// deviations. A constant history has zero standard deviation, so any
// departure from that constant is immediately anomalous.
func (d *AnomalyDetector) IsAnomaly(reading *SensorReading, history []SensorReading) bool {
	if len(history) < d.minSamples {
		return false
	}
	if len(history) > d.window {
		history = history[:d.window]
	}

	if reading.Temperature != nil {
		values := collectTemperatures(history)
		if d.isOutlier(*reading.Temperature, values) {
			return true
		}
	}
	if reading.Humidity != nil {
		values := collectHumidities(history)
		if d.isOutlier(*reading.Humidity, values) {
			return true
		}
	}
	return false
}

// isOutlier applies the standard-score test to a single dimension.
func (d *AnomalyDetector) isOutlier(value float64, values []float64) bool {
	if len(values) < d.minSamples {
		return false
	}
	m := mean(values)
	sd := sampleStdDev(values, m)
	return math.Abs(value-m) > d.sigma*sd
}

// collectTemperatures extracts non-absent temperature values.
func collectTemperatures(readings []SensorReading) []float64 {
	values := make([]float64, 0, len(readings))
	for i := range readings {
		if readings[i].Temperature != nil {
			values = append(values, *readings[i].Temperature)
		}
	}
	return values
}

// collectHumidities extracts non-absent humidity values.
func collectHumidities(readings []SensorReading) []float64 {
	values := make([]float64, 0, len(readings))
	for i := range readings {
		if readings[i].Humidity != nil {
			values = append(values, *readings[i].Humidity)
		}
	}
	return values
}

// mean returns the arithmetic mean. Callers guarantee len(values) > 0.
func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev returns the sample standard deviation (n-1 divisor).
func sampleStdDev(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
