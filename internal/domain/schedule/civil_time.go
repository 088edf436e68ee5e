// Package schedule convierte fechas locales sin zona (tal como las guarda el admin) en instantes
// absolutos de la hora civil de Europa Central y evalúa ventanas de tiempo sobre ellos.
//
// No usa la base tzdata: la regla de horario de verano es explícita y fija para que todos los
// llamadores compartan exactamente la misma frontera.
package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Zone zona civil con sólo dos offsets fijos respecto a UTC.
type Zone struct {
	StandardName string
	DaylightName string
	Standard     time.Duration
	Daylight     time.Duration
}

// CentralEuropean MEZ (UTC+1) / MESZ (UTC+2).
var CentralEuropean = Zone{
	StandardName: "CET",
	DaylightName: "CEST",
	Standard:     time.Hour,
	Daylight:     2 * time.Hour,
}

// LocalDateTime fecha y hora de pared sin zona horaria.
type LocalDateTime struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
}

// Formatos aceptados sin offset. Sólo fecha equivale a las 00:00.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Formatos con offset explícito: se toman como instante absoluto sin aplicar la regla.
var offsetLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

// ParseLocalDateTime interpreta s como fecha/hora de pared sin zona.
func ParseLocalDateTime(s string) (LocalDateTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range naiveLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return LocalDateTime{
				Year: t.Year(), Month: t.Month(), Day: t.Day(),
				Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
			}, nil
		}
	}
	return LocalDateTime{}, fmt.Errorf("fecha local inválida %q", s)
}

// LastSunday devuelve el día del mes del último domingo: último día del mes menos los días
// transcurridos desde el domingo anterior.
func LastSunday(year int, month time.Month) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return last.Day() - int(last.Weekday())
}

// IsDaylight aplica la regla: horario de verano desde el último domingo de marzo a las 02:00
// (hora estándar) hasta el último domingo de octubre a las 03:00 (hora de verano).
//
// Sobre la hora de pared: el último domingo de marzo las horas < 03:00 son estándar (02:xx no
// existe y se lee como estándar); el último domingo de octubre las horas < 03:00 son de verano
// (la hora repetida se resuelve a su primera ocurrencia) y desde las 03:00 estándar.
func (z Zone) IsDaylight(l LocalDateTime) bool {
	switch {
	case l.Month < time.March || l.Month > time.October:
		return false
	case l.Month > time.March && l.Month < time.October:
		return true
	case l.Month == time.March:
		d := LastSunday(l.Year, time.March)
		if l.Day != d {
			return l.Day > d
		}
		return l.Hour >= 3
	default:
		d := LastSunday(l.Year, time.October)
		if l.Day != d {
			return l.Day < d
		}
		return l.Hour < 3
	}
}

// Offset devuelve el offset UTC aplicable a la fecha local.
func (z Zone) Offset(l LocalDateTime) time.Duration {
	if z.IsDaylight(l) {
		return z.Daylight
	}
	return z.Standard
}

// Instant convierte la fecha local en un instante absoluto.
func (z Zone) Instant(l LocalDateTime) time.Time {
	name, offset := z.StandardName, z.Standard
	if z.IsDaylight(l) {
		name, offset = z.DaylightName, z.Daylight
	}
	loc := time.FixedZone(name, int(offset/time.Second))
	return time.Date(l.Year, l.Month, l.Day, l.Hour, l.Minute, l.Second, 0, loc)
}

// Parse convierte un texto guardado en configuración en instante absoluto.
// Si el texto ya trae offset (Z, +02:00) se respeta tal cual.
func (z Zone) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("fecha vacía")
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	l, err := ParseLocalDateTime(s)
	if err != nil {
		return time.Time{}, err
	}
	return z.Instant(l), nil
}
