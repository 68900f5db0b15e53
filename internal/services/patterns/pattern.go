package patterns

import (
	"errors"
	"fmt"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/common"
	"strconv"
	"strings"
)

var ErrUnknownPattern = errors.New("unknown pattern")

// Engine is what a pattern needs from the scheduler while it runs.
type Engine interface {
	Apply(frame common.Frame)
	// Wait blocks for ms while polling the authoritative channel. It reports
	// true when the operator quit.
	Wait(ms int, delay *int) bool
	// Hold blocks for ms without polling.
	Hold(ms int)
}

// Pattern runs until cancelled, or returns false once a finite pattern ends.
type Pattern interface {
	Run(e Engine, delay *int) bool
}

type ID int

const (
	AutoFantastico ID = iota + 1
	Choque
	Apilada
	Carrera
	BinarioCompleto
	Danza
	FirstOnFirstOff
	EscaleraCentral
)

var names = map[ID]string{
	AutoFantastico:  "auto-fantastico",
	Choque:          "choque",
	Apilada:         "apilada",
	Carrera:         "carrera",
	BinarioCompleto: "binario-completo",
	Danza:           "danza",
	FirstOnFirstOff: "first-on-first-off",
	EscaleraCentral: "escalera-central",
}

var titles = map[ID]string{
	AutoFantastico:  "Auto Fantastico",
	Choque:          "El Choque",
	Apilada:         "La Apilada",
	Carrera:         "La Carrera",
	BinarioCompleto: "Binario Completo",
	Danza:           "Danza",
	FirstOnFirstOff: "First On First Off",
	EscaleraCentral: "Escalera Central",
}

// IDs lists every pattern in menu order.
func IDs() []ID {
	return []ID{AutoFantastico, Choque, Apilada, Carrera, BinarioCompleto, Danza, FirstOnFirstOff, EscaleraCentral}
}

func (id ID) Valid() bool {
	return id >= AutoFantastico && id <= EscaleraCentral
}

func (id ID) String() string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("ID(%d)", int(id))
}

// Title is the human readable menu label.
func (id ID) Title() string {
	if title, ok := titles[id]; ok {
		return title
	}
	return id.String()
}

// Parse accepts a menu number or a pattern name.
func Parse(s string) (ID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if id := ID(n); id.Valid() {
			return id, nil
		}
		return 0, fmt.Errorf("%w: %s", ErrUnknownPattern, s)
	}
	for id, name := range names {
		if name == s || strings.ReplaceAll(name, "-", "") == s {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownPattern, s)
}

// Lookup returns a fresh pattern instance; patterns carry run state.
func Lookup(id ID) (Pattern, error) {
	switch id {
	case AutoFantastico:
		return &Bounce{}, nil
	case Choque:
		return NewTable(choque), nil
	case Apilada:
		return &Stack{}, nil
	case Carrera:
		return NewTable(carrera), nil
	case BinarioCompleto:
		return &Counter{}, nil
	case Danza:
		return NewTable(danza), nil
	case FirstOnFirstOff:
		return &FillDrain{}, nil
	case EscaleraCentral:
		return NewTable(escaleraCentral), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownPattern, int(id))
}
