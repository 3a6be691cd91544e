package vec

// Summation is a Kahan compensated running sum, used anywhere many small
// floating point deltas accumulate (elevation deltas, perimeter lengths)
// and naive += drift would matter.
type Summation struct {
	Sum          float64
	compensation float64
}

// Add folds value into the running sum, tracking the lost low-order bits.
func (s *Summation) Add(value float64) {
	compensated := value - s.compensation
	newSum := s.Sum + compensated
	s.compensation = (newSum - s.Sum) - compensated
	s.Sum = newSum
}
