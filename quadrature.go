package pvt

// Legendre-Gauss quadrature coefficients, adapted from:
// <https://pomax.github.io/bezierinfo/legendre-gauss.html>
//
// The path-length integrand is the magnitude of a piecewise-cubic
// derivative, which a 16-point rule integrates to near machine precision
// over a single spline interval. Spans crossing spline knots are split at
// the knots before integration (see GeometricPath.SegmentLength), so no
// adaptive subdivision is needed.

var gaussLegendreCoeffs16 = [...][2]float64{
	{0.1894506104550685, -0.0950125098376374},
	{0.1894506104550685, 0.0950125098376374},
	{0.1826034150449236, -0.2816035507792589},
	{0.1826034150449236, 0.2816035507792589},
	{0.1691565193950025, -0.4580167776572274},
	{0.1691565193950025, 0.4580167776572274},
	{0.1495959888165767, -0.6178762444026438},
	{0.1495959888165767, 0.6178762444026438},
	{0.1246289712555339, -0.7554044083550030},
	{0.1246289712555339, 0.7554044083550030},
	{0.0951585116824928, -0.8656312023878318},
	{0.0951585116824928, 0.8656312023878318},
	{0.0622535239386479, -0.9445750230732326},
	{0.0622535239386479, 0.9445750230732326},
	{0.0271524594117541, -0.9894009349916499},
	{0.0271524594117541, 0.9894009349916499},
}

// integrate approximates the integral of f over [a, b] with a 16-point
// Gauss-Legendre rule.
func integrate(f func(float64) float64, a, b float64) float64 {
	mid := 0.5 * (a + b)
	half := 0.5 * (b - a)
	var sum float64
	for _, coeff := range gaussLegendreCoeffs16 {
		wi, xi := coeff[0], coeff[1]
		sum += wi * f(mid+half*xi)
	}
	return sum * half
}
