package locale

import (
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/pt_BR"
)

// Formatter formats timestamps for display in a fixed locale and timezone
type Formatter struct {
	translator locales.Translator
	location   *time.Location
}

// NewFormatter create a pt-BR Formatter in the named timezone, falling back to UTC when it is unknown
func NewFormatter(timezone string) *Formatter {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return &Formatter{
		translator: pt_BR.New(),
		location:   loc,
	}
}

// DateTime short date followed by short time, day first
func (f *Formatter) DateTime(t time.Time) string {
	t = t.In(f.location)
	return f.translator.FmtDateShort(t) + " " + f.translator.FmtTimeShort(t)
}
