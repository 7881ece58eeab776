// Package spectral provides the frequency-space machinery shared by the
// sampler and the solver: real 2D Fourier transforms and precomputed
// wavenumber grids.
//
// Transforms follow the half-spectrum convention for real input, storing
// n×(n/2+1) coefficients row-major with the first axis along rows.
// [Transform2] owns its plan scratch and is not safe for concurrent use;
// allocate one per goroutine.
//
// [Grid] precomputes the wavenumbers, the Laplacian symbol and the
// 2/3-rule dealiasing mask for a given resolution, flattened to match the
// transform layout.
package spectral
