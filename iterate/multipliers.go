package iterate

// Multipliers is the primal-dual triple carried by an Iterate: constraint multipliers y
// (length m) and the two bound-multiplier vectors z_L, z_U (length n each). Sign
// convention (spec §3): lower-bound multipliers are nonnegative, upper-bound multipliers
// are nonpositive.
type Multipliers struct {
	Constraints []float64
	LowerBounds []float64
	UpperBounds []float64
}

// NewMultipliers allocates a zeroed triple sized for m constraints and n variables.
func NewMultipliers(n, m int) Multipliers {
	return Multipliers{
		Constraints: make([]float64, m),
		LowerBounds: make([]float64, n),
		UpperBounds: make([]float64, n),
	}
}

// CopyFrom overwrites the receiver's entries with src's, requiring matching lengths.
func (m *Multipliers) CopyFrom(src Multipliers) {
	copy(m.Constraints, src.Constraints)
	copy(m.LowerBounds, src.LowerBounds)
	copy(m.UpperBounds, src.UpperBounds)
}

// Clone returns an independent copy.
func (m Multipliers) Clone() Multipliers {
	out := Multipliers{
		Constraints: make([]float64, len(m.Constraints)),
		LowerBounds: make([]float64, len(m.LowerBounds)),
		UpperBounds: make([]float64, len(m.UpperBounds)),
	}
	out.CopyFrom(m)
	return out
}

// AddDisplacement applies a direction's multiplier displacement in place:
// new_y = current_y + displacement (spec §8 "Direction multipliers... are displacements").
func (m *Multipliers) AddDisplacement(d Multipliers) {
	for j := range m.Constraints {
		m.Constraints[j] += d.Constraints[j]
	}
	for i := range m.LowerBounds {
		m.LowerBounds[i] += d.LowerBounds[i]
	}
	for i := range m.UpperBounds {
		m.UpperBounds[i] += d.UpperBounds[i]
	}
}
