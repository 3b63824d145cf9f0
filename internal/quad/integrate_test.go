package quad_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/quadbench/internal/quad"
)

func square(x float64) float64 { return x * x }
func one(float64) float64      { return 1.0 }

var _ = Describe("Integrate", func() {
	It("integrates cos over [0, pi] to zero", func() {
		v, err := quad.Integrate(math.Cos, 0, math.Pi, 10000)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 0.0, 1e-3))
	})

	It("integrates x^2 over [0, 1] to 1/3", func() {
		v, err := quad.Integrate(square, 0, 1, 10000)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 1.0/3.0, 1e-3))
	})

	It("integrates a constant exactly", func() {
		v, err := quad.Integrate(one, 0, 5, 5000)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 5.0, 1e-9))
	})

	It("uses the left endpoint of every sub-interval", func() {
		var xs []float64
		_, err := quad.Integrate(func(x float64) float64 {
			xs = append(xs, x)
			return 0
		}, 0, 1, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(xs).To(Equal([]float64{0, 0.25, 0.5, 0.75}))
	})

	It("halves the error when n doubles", func() {
		exact := 1.0 / 3.0
		prev := math.Inf(1)
		for _, n := range []int{1000, 2000, 4000, 8000, 16000} {
			v, err := quad.Integrate(square, 0, 1, n)
			Expect(err).NotTo(HaveOccurred())
			e := math.Abs(v - exact)
			Expect(e).To(BeNumerically("<", prev))
			if !math.IsInf(prev, 1) {
				Expect(prev / e).To(BeNumerically("~", 2.0, 0.1))
			}
			prev = e
		}
	})

	DescribeTable("rejects bad bounds",
		func(a, b float64) {
			_, err := quad.Integrate(math.Cos, a, b, 1000)
			Expect(err).To(MatchError(quad.ErrInvalidBounds))
		},
		Entry("a > b", 1.0, 0.0),
		Entry("a == b", 2.0, 2.0),
		Entry("NaN bound", math.NaN(), 1.0),
	)

	DescribeTable("rejects bad partition counts",
		func(n int) {
			_, err := quad.Integrate(math.Cos, 0, 1, n)
			Expect(err).To(MatchError(quad.ErrInvalidPartition))
		},
		Entry("zero", 0),
		Entry("negative", -1),
	)

	It("stops when its context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := quad.IntegrateContext(ctx, math.Cos, 0, 1, 100000)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("matches Integrate under a live context", func() {
		want, err := quad.Integrate(square, 0, 1, 5000)
		Expect(err).NotTo(HaveOccurred())
		got, err := quad.IntegrateContext(context.Background(), square, 0, 1, 5000)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))
	})

	It("reports a panicking integrand as an error", func() {
		_, err := quad.Integrate(func(float64) float64 { panic("boom") }, 0, 1, 10)
		Expect(err).To(MatchError(quad.ErrFunctionPanicked))
		Expect(err.Error()).To(ContainSubstring("boom"))
	})
})

var _ = Describe("Split", func() {
	It("produces contiguous equal-width jobs covering the interval", func() {
		jobs, err := quad.Split(0, 3, 300, 3, quad.SplitTruncate)
		Expect(err).NotTo(HaveOccurred())
		Expect(jobs).To(HaveLen(3))
		Expect(jobs[0].A).To(Equal(0.0))
		Expect(jobs[2].B).To(Equal(3.0))
		for i := range jobs {
			Expect(jobs[i].Index).To(Equal(i))
			Expect(jobs[i].B - jobs[i].A).To(BeNumerically("~", 1.0, 1e-12))
			if i > 0 {
				Expect(jobs[i].A).To(Equal(jobs[i-1].B))
			}
		}
	})

	It("truncates the remainder under the truncate policy", func() {
		jobs, err := quad.Split(0, 1, 1000, 3, quad.SplitTruncate)
		Expect(err).NotTo(HaveOccurred())
		total := 0
		for _, j := range jobs {
			Expect(j.N).To(Equal(333))
			total += j.N
		}
		Expect(total).To(Equal(999))
		Expect(quad.EffectiveSamples(1000, 3, quad.SplitTruncate)).To(Equal(999))
	})

	It("hands the remainder to the first jobs under the distribute policy", func() {
		jobs, err := quad.Split(0, 1, 1002, 4, quad.SplitDistribute)
		Expect(err).NotTo(HaveOccurred())
		Expect([]int{jobs[0].N, jobs[1].N, jobs[2].N, jobs[3].N}).To(Equal([]int{251, 251, 250, 250}))
		Expect(quad.EffectiveSamples(1002, 4, quad.SplitDistribute)).To(Equal(1002))
	})

	DescribeTable("validates its inputs",
		func(a, b float64, n, k int, want error) {
			_, err := quad.Split(a, b, n, k, quad.SplitTruncate)
			Expect(err).To(MatchError(want))
		},
		Entry("reversed bounds", 1.0, 0.0, 100, 2, quad.ErrInvalidBounds),
		Entry("zero n", 0.0, 1.0, 0, 2, quad.ErrInvalidPartition),
		Entry("zero jobs", 0.0, 1.0, 100, 0, quad.ErrInvalidPartition),
		Entry("negative jobs", 0.0, 1.0, 100, -2, quad.ErrInvalidPartition),
		Entry("fewer samples than jobs", 0.0, 1.0, 3, 4, quad.ErrInvalidPartition),
		Entry("interval too narrow for the jobs", 1.0, math.Nextafter(1, 2), 100, 4, quad.ErrInvalidPartition),
	)

	It("parses policy names", func() {
		p, err := quad.ParseSplitPolicy("")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(quad.SplitTruncate))
		p, err = quad.ParseSplitPolicy("distribute")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(quad.SplitDistribute))
		_, err = quad.ParseSplitPolicy("round")
		Expect(err).To(HaveOccurred())
	})
})

type spyExecutor struct {
	calls int
}

func (s *spyExecutor) Execute(ctx context.Context, fn quad.Function, jobs []quad.Job) ([]float64, error) {
	s.calls++
	return quad.Serial{}.Execute(ctx, fn, jobs)
}

var _ = Describe("IntegrateParallel", func() {
	var ctx context.Context
	sq := quad.Function{Name: "square", Eval: square}

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("agrees with the sequential sum when n is divisible by k", func() {
		seq, err := quad.Integrate(math.Cos, 0, math.Pi/2, 12000)
		Expect(err).NotTo(HaveOccurred())

		fn := quad.Function{Name: "cos", Eval: math.Cos}
		for _, exec := range []quad.Executor{quad.Threads{}, quad.Threads{Limit: 2}, quad.Serial{}} {
			v, err := quad.IntegrateParallel(ctx, exec, fn, 0, math.Pi/2, 4, 12000)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(BeNumerically("~", seq, 1e-9))
		}
	})

	// 1000 samples over 3 jobs evaluate only 3*333 = 999 points, so the
	// tolerance is scaled to the truncated count.
	It("stays accurate when the remainder is truncated", func() {
		effective := quad.EffectiveSamples(1000, 3, quad.SplitTruncate)
		v, err := quad.IntegrateParallel(ctx, quad.Threads{}, sq, 0, 1, 3, 1000)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 1.0/3.0, 1.0/float64(effective)))
	})

	It("keeps every sample under the distribute policy", func() {
		var count int64
		counting := quad.Function{Eval: func(x float64) float64 {
			count++
			return x * x
		}}
		v, err := quad.IntegrateParallel(ctx, quad.Serial{}, counting, 0, 1, 3, 1000, quad.WithSplitPolicy(quad.SplitDistribute))
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(int64(1000)))
		Expect(v).To(BeNumerically("~", 1.0/3.0, 1e-3))
	})

	It("validates before dispatching any job", func() {
		spy := &spyExecutor{}
		_, err := quad.IntegrateParallel(ctx, spy, sq, 1, 0, 2, 100)
		Expect(err).To(MatchError(quad.ErrInvalidBounds))
		_, err = quad.IntegrateParallel(ctx, spy, sq, 0, 1, 0, 100)
		Expect(err).To(MatchError(quad.ErrInvalidPartition))
		_, err = quad.IntegrateParallel(ctx, spy, sq, 0, 1, 2, -1)
		Expect(err).To(MatchError(quad.ErrInvalidPartition))
		Expect(spy.calls).To(BeZero())
	})

	It("rejects a too-narrow interval before dispatch", func() {
		spy := &spyExecutor{}
		_, err := quad.IntegrateParallel(ctx, spy, sq, 1, math.Nextafter(1, 2), 4, 100)
		Expect(err).To(MatchError(quad.ErrInvalidPartition))
		Expect(spy.calls).To(BeZero())
	})

	It("fails the whole call when one job fails", func() {
		fn := quad.Function{Name: "bad", Eval: func(x float64) float64 {
			if x >= 0.5 {
				panic("domain error")
			}
			return x
		}}
		v, err := quad.IntegrateParallel(ctx, quad.Threads{}, fn, 0, 1, 4, 4000)
		Expect(v).To(BeZero())
		Expect(err).To(MatchError(quad.ErrWorkerFailed))
		Expect(err).To(MatchError(quad.ErrFunctionPanicked))

		var jobErr *quad.JobError
		Expect(errors.As(err, &jobErr)).To(BeTrue())
		Expect(jobErr.Job).To(BeNumerically(">=", 2))
	})

	It("returns the context error when the caller cancels", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := quad.IntegrateParallel(cctx, quad.Threads{}, sq, 0, 1, 2, 100000)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("refuses a function without an evaluator", func() {
		_, err := quad.IntegrateParallel(ctx, quad.Threads{}, quad.Function{Name: "cos"}, 0, 1, 2, 100)
		Expect(err).To(MatchError(quad.ErrNoEvaluator))
	})
})
