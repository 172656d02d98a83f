package bspline

// Algorithms A2.1 and A2.3 of Piegl & Tiller, "The NURBS Book", in 0-based
// indexing. A knot vector of length m+1 and degree p carries n+1 = m-p basis
// functions.

// UniformKnots returns the open (clamped) knot vector of degree p with
// elements equal spans on [a,b].
func UniformKnots(p, elements int, a, b float64) []float64 {
	knots := make([]float64, 0, elements+2*p+1)
	for i := 0; i <= p; i++ {
		knots = append(knots, a)
	}
	for i := 1; i < elements; i++ {
		knots = append(knots, a+(b-a)*float64(i)/float64(elements))
	}
	for i := 0; i <= p; i++ {
		knots = append(knots, b)
	}
	return knots
}

// FindSpan returns the index i with knots[i] <= u < knots[i+1]. The right end
// of the interval belongs to the last non-empty span.
func FindSpan(knots []float64, p int, u float64) int {
	n := len(knots) - p - 2
	if u >= knots[n+1] {
		for n > p && knots[n] == knots[n+1] {
			n--
		}
		return n
	}
	if u <= knots[p] {
		return p
	}
	low, high := p, n+1
	mid := (low + high) / 2
	for u < knots[mid] || u >= knots[mid+1] {
		if u < knots[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// EvalBasisDers fills ders[k][j] with the k-th derivative of the basis
// function span-p+j at u, for k = 0..len(ders)-1 and j = 0..p. Derivatives
// above p are zero.
func EvalBasisDers(knots []float64, p, span int, u float64, ders [][]float64) {
	var (
		n     = len(ders) - 1
		ndu   = make([][]float64, p+1)
		left  = make([]float64, p+1)
		right = make([]float64, p+1)
	)
	for j := range ndu {
		ndu[j] = make([]float64, p+1)
	}
	ndu[0][0] = 1
	for j := 1; j <= p; j++ {
		left[j] = u - knots[span+1-j]
		right[j] = knots[span+j] - u
		saved := 0.
		for r := 0; r < j; r++ {
			// lower triangle holds the knot differences
			ndu[j][r] = right[r+1] + left[j-r]
			temp := ndu[r][j-1] / ndu[j][r]
			ndu[r][j] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}
	for j := 0; j <= p; j++ {
		ders[0][j] = ndu[j][p]
	}
	for k := 1; k <= n; k++ {
		for j := range ders[k] {
			ders[k][j] = 0
		}
	}
	nd := min(n, p)
	if nd == 0 {
		return
	}

	a := [2][]float64{make([]float64, p+1), make([]float64, p+1)}
	for r := 0; r <= p; r++ {
		s1, s2 := 0, 1
		a[0][0] = 1
		for k := 1; k <= nd; k++ {
			d := 0.
			rk, pk := r-k, p-k
			if r >= k {
				a[s2][0] = a[s1][0] / ndu[pk+1][rk]
				d = a[s2][0] * ndu[rk][pk]
			}
			j1 := 1
			if rk < -1 {
				j1 = -rk
			}
			j2 := k - 1
			if r-1 > pk {
				j2 = p - r
			}
			for j := j1; j <= j2; j++ {
				a[s2][j] = (a[s1][j] - a[s1][j-1]) / ndu[pk+1][rk+j]
				d += a[s2][j] * ndu[rk+j][pk]
			}
			if r <= pk {
				a[s2][k] = -a[s1][k-1] / ndu[pk+1][r]
				d += a[s2][k] * ndu[r][pk]
			}
			ders[k][r] = d
			s1, s2 = s2, s1
		}
	}
	fac := float64(p)
	for k := 1; k <= nd; k++ {
		for j := 0; j <= p; j++ {
			ders[k][j] *= fac
		}
		fac *= float64(p - k)
	}
}
