package solver_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fdpde/internal/blackscholes"
	"github.com/san-kum/fdpde/internal/grid"
	"github.com/san-kum/fdpde/internal/mesh"
	"github.com/san-kum/fdpde/internal/pde"
	"github.com/san-kum/fdpde/internal/problems"
	"github.com/san-kum/fdpde/internal/solver"
)

func mustSolver(cfg solver.Config) *solver.ThetaMethod {
	GinkgoHelper()
	s, err := solver.NewThetaMethod(cfg)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func withTheta(theta float64) solver.Config {
	cfg := solver.DefaultConfig()
	cfg.Theta = theta
	return cfg
}

var _ = Describe("Config", func() {
	It("accepts the defaults", func() {
		Expect(solver.DefaultConfig().Validate()).To(Succeed())
		Expect(solver.DefaultConfig().RetainHistory).To(BeTrue())
	})

	DescribeTable("rejects invalid settings",
		func(cfg solver.Config) {
			s, err := solver.NewThetaMethod(cfg)
			Expect(err).To(MatchError(pde.ErrInvalidParameter))
			Expect(s).To(BeNil())
		},
		Entry("negative theta", solver.Config{Theta: -0.1}),
		Entry("theta above one", solver.Config{Theta: 1.5}),
		Entry("NaN theta", solver.Config{Theta: math.NaN()}),
		Entry("negative correction steps", solver.Config{Theta: 0.5, Correction: solver.Correction{Steps: -1, Theta: 1, SubSteps: 2}}),
		Entry("no correction sub-steps", solver.Config{Theta: 0.5, Correction: solver.Correction{Steps: 2, Theta: 1}}),
		Entry("correction theta out of range", solver.Config{Theta: 0.5, Correction: solver.Correction{Steps: 2, Theta: 2, SubSteps: 2}}),
	)

	It("builds the usual implicit start", func() {
		c := solver.Rannacher(3)
		Expect(c).To(Equal(solver.Correction{Steps: 3, Theta: 1, SubSteps: 2}))
		Expect(c.Enabled()).To(BeTrue())
		Expect(solver.Correction{}.Enabled()).To(BeFalse())
	})

	It("rejects a nil bundle", func() {
		_, err := mustSolver(solver.DefaultConfig()).Solve(nil)
		Expect(err).To(MatchError(pde.ErrInvalidParameter))
	})
})

var _ = Describe("ThetaMethod", func() {
	Describe("initial layer", func() {
		It("stores the initial condition at every node, boundaries included", func() {
			g := buildGrid(uniform(0, 1, 6), mesh.Spec{Kind: mesh.KindExponential, Low: -1, High: 2, Points: 31, Bunching: 1.5})
			initial := func(x float64) float64 { return math.Sin(3*x) + x*x }
			// boundary values deliberately disagree with the initial data
			b, err := pde.NewDataBundle(pde.ConstantCoefficients{A: 0.3, B: 0.1, C: -0.2}, initial,
				pde.NewConstantDirichlet(-1, 7), pde.NewConstantDirichlet(2, -7), g)
			Expect(err).NotTo(HaveOccurred())

			for _, retain := range []bool{true, false} {
				cfg := withTheta(0.5)
				cfg.RetainHistory = retain
				res, err := mustSolver(cfg).Solve(b)
				Expect(err).NotTo(HaveOccurred())
				for j := 0; j < g.NumSpaceNodes(); j++ {
					Expect(res.ValueAt(j, 0)).To(Equal(initial(g.SpaceAt(j))))
				}
			}
		})
	})

	Describe("Dirichlet boundaries", func() {
		DescribeTable("hold the prescribed value at every later layer",
			func(theta float64) {
				g := buildGrid(mesh.Spec{Kind: mesh.KindExponential, Low: 0, High: 2, Points: 21, Bunching: 2},
					mesh.Spec{Kind: mesh.KindHyperbolic, Low: 0, High: 3, Points: 41, Anchor: 1, Bunching: 0.2})
				lowerFn := func(t float64) float64 { return 1 + t }
				upperFn := func(t float64) float64 { return math.Cos(t) }
				b, err := pde.NewDataBundle(pde.ConstantCoefficients{A: 0.001, B: 0.05, C: -0.05},
					func(x float64) float64 { return 1 - x/3 },
					pde.NewDirichlet(0, lowerFn), pde.NewDirichlet(3, upperFn), g)
				Expect(err).NotTo(HaveOccurred())

				res, err := mustSolver(withTheta(theta)).Solve(b)
				Expect(err).NotTo(HaveOccurred())
				last := g.NumSpaceNodes() - 1
				for k := 1; k < g.NumTimeNodes(); k++ {
					Expect(res.ValueAt(0, k)).To(Equal(lowerFn(g.TimeAt(k))))
					Expect(res.ValueAt(last, k)).To(Equal(upperFn(g.TimeAt(k))))
				}
			},
			Entry("explicit", 0.0),
			Entry("Crank-Nicolson", 0.5),
			Entry("implicit", 1.0),
		)
	})

	Describe("quadratic solutions", func() {
		// V = x² + 2t solves V_t = V_xx, and the three-point stencils
		// differentiate quadratics exactly, so only rounding remains.
		exact := func(t, x float64) float64 { return x*x + 2*t }

		DescribeTable("are reproduced on non-uniform meshes",
			func(cfg solver.Config, upper pde.BoundaryCondition) {
				g := buildGrid(uniform(0, 0.5, 11), mesh.Spec{Kind: mesh.KindExponential, Low: 0, High: 1, Points: 21, Bunching: 2})
				b, err := pde.NewDataBundle(pde.ConstantCoefficients{A: 1},
					func(x float64) float64 { return exact(0, x) },
					pde.NewDirichlet(0, func(t float64) float64 { return exact(t, 0) }), upper, g)
				Expect(err).NotTo(HaveOccurred())

				res, err := mustSolver(cfg).Solve(b)
				Expect(err).NotTo(HaveOccurred())
				for k := 0; k < g.NumTimeNodes(); k++ {
					for j := 0; j < g.NumSpaceNodes(); j++ {
						Expect(res.ValueAt(j, k)).To(BeNumerically("~", exact(g.TimeAt(k), g.SpaceAt(j)), 1e-10))
					}
				}
			},
			Entry("outward Neumann, Crank-Nicolson", withTheta(0.5), pde.NewConstantNeumann(1, 2, true)),
			Entry("inward Neumann, implicit", withTheta(1), pde.NewConstantNeumann(1, -2, false)),
			Entry("outward Neumann, theta 0.55 with correction",
				solver.Config{Theta: 0.55, RetainHistory: true, Correction: solver.Rannacher(2)}, pde.NewConstantNeumann(1, 2, true)),
		)

		It("reproduces a quadratic with Neumann at the lower edge", func() {
			// V = (x-1)² + 2t has zero slope at x = 1 and slope -2 at x = 0
			exact := func(t, x float64) float64 { return (x-1)*(x-1) + 2*t }
			g := buildGrid(uniform(0, 0.2, 5), mesh.Spec{Kind: mesh.KindHyperbolic, Low: 0, High: 1, Points: 15, Anchor: 0.3, Bunching: 0.4})
			b, err := pde.NewDataBundle(pde.ConstantCoefficients{A: 1},
				func(x float64) float64 { return exact(0, x) },
				pde.NewConstantNeumann(0, 2, true),
				pde.NewConstantNeumann(1, 0, true), g)
			Expect(err).NotTo(HaveOccurred())

			res, err := mustSolver(withTheta(1)).Solve(b)
			Expect(err).NotTo(HaveOccurred())
			for j := 0; j < g.NumSpaceNodes(); j++ {
				Expect(res.ValueAt(j, 4)).To(BeNumerically("~", exact(0.2, g.SpaceAt(j)), 1e-10))
			}
		})
	})

	Describe("pure diffusion with insulated ends", func() {
		var (
			heat *problems.Heat
			res  *pde.Results
		)

		BeforeEach(func() {
			var err error
			heat, err = problems.NewHeat(nil, true)
			Expect(err).NotTo(HaveOccurred())
			g := buildGrid(uniform(0, 0.5, 51), uniform(0, 1, 51))
			b, err := heat.Bundle(g)
			Expect(err).NotTo(HaveOccurred())
			res, err = mustSolver(withTheta(1)).Solve(b)
			Expect(err).NotTo(HaveOccurred())
		})

		It("conserves the integral", func() {
			initial := res.SpaceIntegral(0)
			Expect(initial).To(BeNumerically("~", 1, 1e-3))
			for _, k := range res.RetainedTimeIndices() {
				Expect(res.SpaceIntegral(k)).To(BeNumerically("~", initial, 5e-3))
			}
		})

		It("follows the decaying cosine mode", func() {
			g := res.Grid()
			for _, k := range []int{10, 25, 50} {
				for j := 0; j < g.NumSpaceNodes(); j += 5 {
					Expect(res.ValueAt(j, k)).To(BeNumerically("~", heat.Exact(g.TimeAt(k), g.SpaceAt(j)), 2e-2))
				}
			}
		})
	})

	Describe("stability on a coarse time mesh", func() {
		var b *pde.DataBundle

		BeforeEach(func() {
			g := buildGrid(uniform(0, 1, 11), uniform(0, 1, 101))
			hat := func(x float64) float64 { return 1 - 2*math.Abs(x-0.5) }
			var err error
			b, err = pde.NewDataBundle(pde.ConstantCoefficients{A: 1}, hat,
				pde.NewConstantDirichlet(0, 0), pde.NewConstantDirichlet(1, 0), g)
			Expect(err).NotTo(HaveOccurred())
		})

		It("stays bounded when fully implicit", func() {
			res, err := mustSolver(withTheta(1)).Solve(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.MaxAbs()).To(BeNumerically("<=", 1+1e-12))
		})

		It("blows up when explicit, as expected of a scheme past its stability limit", func() {
			res, err := mustSolver(withTheta(0)).Solve(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.MaxAbs()).To(BeNumerically(">", 1e3))
		})
	})

	Describe("forward Black-Scholes", func() {
		DescribeTable("recovers the flat volatility",
			func(cfg solver.Config) {
				p, err := problems.NewForwardBlackScholes(map[string]float64{"vol": 0.2, "rate": 0.05})
				Expect(err).NotTo(HaveOccurred())
				g := buildGrid(p.Meshes())
				b, err := p.Bundle(g)
				Expect(err).NotTo(HaveOccurred())

				res, err := mustSolver(cfg).Solve(b)
				Expect(err).NotTo(HaveOccurred())

				checked := 0
				for k := 0; k < g.NumTimeNodes(); k++ {
					t := g.TimeAt(k)
					if t <= 0.02 {
						continue
					}
					low, high := p.StrikeRange(t, 3)
					for j := 0; j < g.NumSpaceNodes(); j++ {
						strike := g.SpaceAt(j)
						if strike <= low || strike >= high {
							continue
						}
						vol, err := blackscholes.ImpliedVol(res.ValueAt(j, k), 1, strike, t, true)
						Expect(err).NotTo(HaveOccurred(), "t=%v k=%v", t, strike)
						Expect(vol).To(BeNumerically("~", 0.2, 1e-2), "t=%v k=%v", t, strike)
						checked++
					}
				}
				Expect(checked).To(BeNumerically(">", 100))
			},
			Entry("theta 0.55", solver.Config{Theta: 0.55, RetainHistory: true}),
			Entry("theta 0.55 with an implicit start", solver.Config{Theta: 0.55, RetainHistory: true, Correction: solver.Rannacher(2)}),
		)
	})

	Describe("backward Black-Scholes", func() {
		It("prices an at-the-money call", func() {
			p, err := problems.NewBackwardBlackScholes(map[string]float64{"vol": 0.2, "rate": 0.05, "strike": 100})
			Expect(err).NotTo(HaveOccurred())
			g := buildGrid(p.Meshes())
			b, err := p.Bundle(g)
			Expect(err).NotTo(HaveOccurred())

			res, err := mustSolver(solver.Config{Theta: 0.5, Correction: solver.Rannacher(2)}).Solve(b)
			Expect(err).NotTo(HaveOccurred())

			x := math.Log(100)
			Expect(res.InterpolateCubic(1, x)).To(BeNumerically("~", p.Exact(1, x), 2e-2))
		})
	})

	Describe("history retention", func() {
		It("keeps only the ends and agrees with the full run", func() {
			heat, err := problems.NewHeat(nil, false)
			Expect(err).NotTo(HaveOccurred())
			g := buildGrid(uniform(0, 0.1, 21), uniform(0, 1, 31))
			b, err := heat.Bundle(g)
			Expect(err).NotTo(HaveOccurred())

			full, err := mustSolver(withTheta(0.5)).Solve(b)
			Expect(err).NotTo(HaveOccurred())
			cfg := withTheta(0.5)
			cfg.RetainHistory = false
			sparse, err := mustSolver(cfg).Solve(b)
			Expect(err).NotTo(HaveOccurred())

			Expect(full.FullHistory()).To(BeTrue())
			Expect(sparse.RetainedTimeIndices()).To(Equal([]int{0, 20}))
			Expect(sparse.TerminalLayer()).To(Equal(full.TerminalLayer()))
			Expect(math.IsNaN(sparse.ValueAt(3, 10))).To(BeTrue())
		})
	})

	Describe("coefficient evaluation", func() {
		g := buildGridOnce()
		var (
			times map[float64]bool
			b     *pde.DataBundle
		)

		BeforeEach(func() {
			times = make(map[float64]bool)
			coeffs := pde.FunctionCoefficients{A: func(t, _ float64) float64 {
				times[t] = true
				return 0.1
			}}
			var err error
			b, err = pde.NewDataBundle(coeffs, func(x float64) float64 { return x },
				pde.NewConstantDirichlet(0, 0), pde.NewConstantDirichlet(1, 1), g)
			Expect(err).NotTo(HaveOccurred())
		})

		It("never looks ahead when explicit", func() {
			_, err := mustSolver(withTheta(0)).Solve(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(times).NotTo(HaveKey(1.0))
			Expect(times).To(HaveKey(0.75))
		})

		It("never looks back when implicit", func() {
			_, err := mustSolver(withTheta(1)).Solve(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(times).NotTo(HaveKey(0.0))
			Expect(times).To(HaveKey(1.0))
		})

		It("evaluates at sub-step times inside corrected intervals", func() {
			_, err := mustSolver(solver.Config{Theta: 0.5, Correction: solver.Rannacher(1)}).Solve(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(times).To(HaveKey(0.125))
			Expect(times).NotTo(HaveKey(0.375))
		})
	})

	Describe("singular systems", func() {
		It("fails with the step and time and returns no results", func() {
			g := buildGrid(uniform(0, 1, 3), uniform(0, 1, 5))
			b, err := pde.NewDataBundle(pde.ConstantCoefficients{C: 2}, func(float64) float64 { return 1 },
				pde.NewConstantDirichlet(0, 1), pde.NewConstantDirichlet(1, 1), g)
			Expect(err).NotTo(HaveOccurred())

			res, err := mustSolver(withTheta(1)).Solve(b)
			Expect(res).To(BeNil())
			Expect(err).To(MatchError(pde.ErrSingularSystem))

			var se *pde.SolveError
			Expect(err).To(BeAssignableToTypeOf(se))
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Step).To(Equal(1))
			Expect(se.Time).To(Equal(0.5))
		})
	})
})

func buildGridOnce() *grid.Grid {
	tm, _ := mesh.NewUniform(0, 1, 5)
	xm, _ := mesh.NewUniform(0, 1, 11)
	g, _ := grid.New(tm, xm)
	return g
}
