// Package dedup merges near-identical coordinate detections into
// representative centroids.  The same position frequently surfaces several
// times per bulletin: once from the title, once from the body, and once per
// grammar that recognized it.
//
// Clustering is agglomerative with single linkage and runs to a fixpoint:
// each pass merges every cluster pair whose minimum pairwise haversine
// distance is below the threshold, and passes repeat until none merges.
// The computation is pure; each pass builds a new partition rather than
// mutating the previous one.
package dedup

import (
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// DefaultThresholdKm is the merge threshold used by the ingestion pipeline.
// Detections of one physical position differ by rounding between notations,
// never by more than a few hundred meters.
const DefaultThresholdKm = 1.0

// Cluster merges points closer than thresholdKm and returns one centroid per
// cluster, ordered by each cluster's earliest member in the input.  The
// centroid is the arithmetic mean of member latitudes and longitudes, which
// is adequate at sub-100 km scales.  Clusters straddling the antimeridian
// average incorrectly; warnings in that region are rare enough that the
// imprecision is accepted.
//
// Cluster is idempotent at a fixed threshold: feeding its output back in
// yields the same centroids.
func Cluster(points []maritime.GeoPoint, thresholdKm float64) []maritime.GeoPoint {
	if len(points) == 0 {
		return nil
	}

	// Start with singleton clusters.
	clusters := make([][]maritime.GeoPoint, len(points))
	for i, p := range points {
		clusters[i] = []maritime.GeoPoint{p}
	}

	// Each pass removes at least one cluster, so the loop is bounded by n.
	for {
		next, merged := mergePass(clusters, thresholdKm)
		clusters = next
		if !merged {
			break
		}
	}

	centroids := make([]maritime.GeoPoint, len(clusters))
	for i, c := range clusters {
		centroids[i] = centroid(c)
	}
	return centroids
}

// mergePass builds a new partition in which every cluster pair within the
// threshold has been merged, and reports whether any merge happened.
func mergePass(clusters [][]maritime.GeoPoint, thresholdKm float64) ([][]maritime.GeoPoint, bool) {
	n := len(clusters)
	absorbed := make([]bool, n)
	merged := false

	var next [][]maritime.GeoPoint
	for i := 0; i < n; i++ {
		if absorbed[i] {
			continue
		}
		current := clusters[i]
		for j := i + 1; j < n; j++ {
			if absorbed[j] {
				continue
			}
			if minPairwiseDistance(current, clusters[j]) < thresholdKm {
				current = append(append([]maritime.GeoPoint{}, current...), clusters[j]...)
				absorbed[j] = true
				merged = true
			}
		}
		next = append(next, current)
	}
	return next, merged
}

// minPairwiseDistance returns the smallest haversine distance between any
// member of a and any member of b (single linkage).
func minPairwiseDistance(a, b []maritime.GeoPoint) float64 {
	min := maritime.Haversine(a[0], b[0])
	for _, pa := range a {
		for _, pb := range b {
			if d := maritime.Haversine(pa, pb); d < min {
				min = d
			}
		}
	}
	return min
}

// centroid returns the arithmetic mean of the cluster's coordinates.
func centroid(cluster []maritime.GeoPoint) maritime.GeoPoint {
	var lat, lon float64
	for _, p := range cluster {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(cluster))
	return maritime.GeoPoint{Lat: lat / n, Lon: lon / n}
}
