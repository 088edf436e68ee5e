package ports

import "time"

// Clock fuente de la hora actual; inyectable para tests deterministas.
type Clock interface {
	Now() time.Time
}

// SystemClock reloj real.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
