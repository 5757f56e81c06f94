package battle

// scripted replays fixed draws. Exhausted streams return zero.
type scripted struct {
	floats []float64
	ints   []int
}

func (s *scripted) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scripted) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	i := s.ints[0]
	s.ints = s.ints[1:]
	return i % n
}
