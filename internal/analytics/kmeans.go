package analytics

import (
	"math"
	"math/rand"
)

// Clustering determinism parameters. A fixed seed and a fixed number of
// restarts make repeated segmentation runs on the same snapshot
// byte-identical, which the idempotency contract requires.
const (
	kmeansSeed     = 42
	kmeansRestarts = 10
	kmeansMaxIter  = 300
)

// point is one observation in standardized RFM space.
type point [3]float64

// kmeansResult holds the best clustering found across restarts.
type kmeansResult struct {
	assignments []int
	centroids   []point
	inertia     float64
}

// kMeans runs Lloyd's algorithm with multiple random initializations and
// keeps the lowest-inertia partition. All randomness comes from a single
// seeded source, so output is deterministic for a given input order.
func kMeans(points []point, k int) kmeansResult {
	rng := rand.New(rand.NewSource(kmeansSeed))

	best := kmeansResult{inertia: math.Inf(1)}
	for r := 0; r < kmeansRestarts; r++ {
		res := lloyd(points, k, rng)
		if res.inertia < best.inertia {
			best = res
		}
	}
	return best
}

// lloyd performs one run of Lloyd's algorithm from a random initialization.
func lloyd(points []point, k int, rng *rand.Rand) kmeansResult {
	centroids := initCentroids(points, k, rng)
	assignments := make([]int, len(points))

	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, p := range points {
			c := nearest(p, centroids)
			if assignments[i] != c {
				assignments[i] = c
				changed = true
			}
		}

		centroids = recompute(points, assignments, k, centroids)

		if !changed && iter > 0 {
			break
		}
	}

	return kmeansResult{
		assignments: assignments,
		centroids:   centroids,
		inertia:     inertia(points, assignments, centroids),
	}
}

// initCentroids picks k distinct points as starting centroids. With fewer
// distinct points than k the caller has already rejected the input.
func initCentroids(points []point, k int, rng *rand.Rand) []point {
	perm := rng.Perm(len(points))
	centroids := make([]point, 0, k)
	seen := make(map[point]bool, k)

	for _, idx := range perm {
		p := points[idx]
		if seen[p] {
			continue
		}
		seen[p] = true
		centroids = append(centroids, p)
		if len(centroids) == k {
			break
		}
	}

	// Exact duplicates can leave fewer than k distinct points; pad with
	// repeats so the algorithm still yields k clusters.
	for i := 0; len(centroids) < k; i++ {
		centroids = append(centroids, points[perm[i%len(perm)]])
	}
	return centroids
}

// nearest returns the index of the closest centroid, lowest index winning
// ties.
func nearest(p point, centroids []point) int {
	bestIdx := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		if d := sqDist(p, c); d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}
	return bestIdx
}

// recompute moves each centroid to the mean of its members. An empty cluster
// is reseeded from the point farthest from its current centroid assignment,
// keeping k clusters alive.
func recompute(points []point, assignments []int, k int, prev []point) []point {
	sums := make([]point, k)
	counts := make([]int, k)

	for i, p := range points {
		c := assignments[i]
		for d := 0; d < 3; d++ {
			sums[c][d] += p[d]
		}
		counts[c]++
	}

	centroids := make([]point, k)
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			centroids[c] = farthestPoint(points, assignments, prev)
			continue
		}
		for d := 0; d < 3; d++ {
			centroids[c][d] = sums[c][d] / float64(counts[c])
		}
	}
	return centroids
}

// farthestPoint finds the point with the largest distance to its assigned
// centroid.
func farthestPoint(points []point, assignments []int, centroids []point) point {
	best := points[0]
	bestDist := -1.0
	for i, p := range points {
		if d := sqDist(p, centroids[assignments[i]]); d > bestDist {
			bestDist = d
			best = p
		}
	}
	return best
}

// inertia is the total within-cluster sum of squared distances.
func inertia(points []point, assignments []int, centroids []point) float64 {
	total := 0.0
	for i, p := range points {
		total += sqDist(p, centroids[assignments[i]])
	}
	return total
}

func sqDist(a, b point) float64 {
	var d float64
	for i := 0; i < 3; i++ {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d
}
