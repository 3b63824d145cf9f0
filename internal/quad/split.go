package quad

import "fmt"

// Split cuts [a, b] into k equal-width contiguous sub-intervals and assigns
// each a share of the n samples according to policy.
func Split(a, b float64, n, k int, policy SplitPolicy) ([]Job, error) {
	if !(b > a) {
		return nil, fmt.Errorf("%w: a=%g b=%g", ErrInvalidBounds, a, b)
	}
	if n <= 0 || k <= 0 {
		return nil, fmt.Errorf("%w: n=%d jobs=%d", ErrInvalidPartition, n, k)
	}
	if n < k {
		return nil, fmt.Errorf("%w: n=%d leaves some of %d jobs without samples", ErrInvalidPartition, n, k)
	}

	width := (b - a) / float64(k)
	base, rem := n/k, n%k

	jobs := make([]Job, k)
	for i := 0; i < k; i++ {
		hi := a + float64(i+1)*width
		if i == k-1 {
			hi = b
		}
		count := base
		if policy == SplitDistribute && i < rem {
			count++
		}
		lo := a + float64(i)*width
		if !(hi > lo) {
			return nil, fmt.Errorf("%w: [%g, %g] is too narrow for %d jobs", ErrInvalidPartition, a, b, k)
		}
		jobs[i] = Job{
			Index: i,
			A:     lo,
			B:     hi,
			N:     count,
		}
	}
	return jobs, nil
}

// EffectiveSamples is the number of samples a split actually evaluates.
func EffectiveSamples(n, k int, policy SplitPolicy) int {
	if n <= 0 || k <= 0 {
		return 0
	}
	if policy == SplitDistribute {
		return n
	}
	return k * (n / k)
}
