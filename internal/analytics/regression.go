package analytics

// linearFit fits y ≈ intercept + slope*x by ordinary least squares. A
// zero-variance x yields a flat line at the mean of y.
func linearFit(xs, ys []float64) (intercept, slope float64) {
	n := float64(len(xs))
	if n == 0 {
		return 0, 0
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (ys[i] - meanY)
	}

	if sxx == 0 {
		return meanY, 0
	}

	slope = sxy / sxx
	intercept = meanY - slope*meanX
	return intercept, slope
}
