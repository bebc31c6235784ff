package solver_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fdpde/internal/pde"
	"github.com/san-kum/fdpde/internal/problems"
	"github.com/san-kum/fdpde/internal/solver"
)

var _ = Describe("SolveAll", func() {
	var (
		s       *solver.ThetaMethod
		bundles []*pde.DataBundle
	)

	BeforeEach(func() {
		s = mustSolver(withTheta(0.5))
		bundles = nil
		for _, k := range []float64{0.5, 1, 2, 4} {
			heat, err := problems.NewHeat(map[string]float64{"diffusivity": k}, false)
			Expect(err).NotTo(HaveOccurred())
			b, err := heat.Bundle(buildGrid(uniform(0, 0.1, 11), uniform(0, 1, 21)))
			Expect(err).NotTo(HaveOccurred())
			bundles = append(bundles, b)
		}
	})

	It("matches sequential solves, in order", func() {
		results, err := solver.SolveAll(context.Background(), s, bundles, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(len(bundles)))
		for i, b := range bundles {
			want, err := s.Solve(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[i].TerminalLayer()).To(Equal(want.TerminalLayer()))
		}
	})

	It("reports a failing bundle", func() {
		g := buildGrid(uniform(0, 1, 3), uniform(0, 1, 5))
		bad, err := pde.NewDataBundle(pde.ConstantCoefficients{C: 2}, func(float64) float64 { return 1 },
			pde.NewConstantDirichlet(0, 1), pde.NewConstantDirichlet(1, 1), g)
		Expect(err).NotTo(HaveOccurred())

		implicit := mustSolver(withTheta(1))
		results, err := solver.SolveAll(context.Background(), implicit, append(bundles, bad), 0)
		Expect(err).To(MatchError(pde.ErrSingularSystem))
		Expect(err.Error()).To(ContainSubstring("bundle 4"))
		Expect(results).To(BeNil())
	})

	It("skips work once the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		results, err := solver.SolveAll(ctx, s, bundles, 1)
		Expect(err).To(MatchError(context.Canceled))
		Expect(results).To(BeNil())
	})

	It("handles an empty batch", func() {
		results, err := solver.SolveAll(context.Background(), s, nil, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(BeEmpty())
	})
})
