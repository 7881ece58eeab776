// Package grf samples Gaussian random fields on periodic grids.
//
// A [Sampler] draws zero-mean fields whose covariance operator is a
// fractional inverse of the shifted Laplacian, (-Δ + τ²I)^(-α), giving
// smooth random functions whose roughness is controlled by α and whose
// correlation length is controlled by τ. Supported dimensions are 1, 2
// and 3.
//
// # Reproducibility
//
// A sampler is seeded at construction and draws are fully deterministic.
// [Sampler.Reseed] rewinds or re-keys the stream, so independent workers
// can regenerate any batch from its seed alone:
//
//	s, _ := grf.New(grf.Params{Dim: 2, Size: 256, Alpha: 2.5, Tau: 7, Seed: 1})
//	batch := s.Sample(20)
package grf
