// Package analytics computes descriptive statistics, trends, and
// reports over stored sensor readings.
//
// The package is read-only over the climate repository: it never
// mutates readings, rooms, or alerts. Results are cached in an
// injected in-process Cache with TTL-based lazy expiry, so repeated
// queries within the TTL window are served without touching the
// database.
//
// Components:
//   - Cache: concurrency-safe key/value store with per-entry TTL
//   - Aggregator: windowed summary statistics and two-bucket trends
//   - Generator: full reports with hourly buckets, anomaly rates, and
//     three-bucket trend segmentation
//
// Thread Safety:
//   - Cache, Aggregator, and Generator are safe for concurrent use.
package analytics
