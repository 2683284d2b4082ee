package domain

// BookLog groups the sessions of one book for export.
type BookLog struct {
	Book     BookRef
	Missing  bool
	Sessions []Session
}

func (l BookLog) TotalHours() float64 {
	total := 0.0
	for _, s := range l.Sessions {
		total += s.Duration
	}
	return total
}
