package metrics

import "github.com/san-kum/vortgen/internal/field"

// KineticEnergy returns the mean kinetic energy density 0.5·⟨u²+v²⟩ of a
// velocity field pair.
func KineticEnergy(u, v field.Field) float64 {
	if len(u.Data) == 0 || len(u.Data) != len(v.Data) {
		return 0
	}
	sum := 0.0
	for i := range u.Data {
		sum += u.Data[i]*u.Data[i] + v.Data[i]*v.Data[i]
	}
	return 0.5 * sum / float64(len(u.Data))
}

// Enstrophy returns the mean enstrophy density 0.5·⟨w²⟩ of a vorticity field.
func Enstrophy(w field.Field) float64 {
	if len(w.Data) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range w.Data {
		sum += x * x
	}
	return 0.5 * sum / float64(len(w.Data))
}

// BatchKineticEnergy averages KineticEnergy over matching batch elements.
func BatchKineticEnergy(u, v field.Batch) float64 {
	if len(u) == 0 || len(u) != len(v) {
		return 0
	}
	sum := 0.0
	for i := range u {
		sum += KineticEnergy(u[i], v[i])
	}
	return sum / float64(len(u))
}
