package domain

import (
	"errors"
	"fmt"
	"strings"
)

type Sakstype string

const (
	SakstypeSoknad          Sakstype = "SØKNAD"
	SakstypeBestilling      Sakstype = "BESTILLING"
	SakstypeBytte           Sakstype = "BYTTE"
	SakstypeBrukerpassbytte Sakstype = "BRUKERPASSBYTTE"
	SakstypeBarnebriller    Sakstype = "BARNEBRILLER"
)

type Prioritet string

const (
	PrioritetNorm Prioritet = "NORM"
	PrioritetHoy  Prioritet = "HOY"
)

func PrioritetFor(erHast bool) Prioritet {
	if erHast {
		return PrioritetHoy
	}
	return PrioritetNorm
}

const (
	Tema                     = "HJE"
	Temagruppe               = "HJLPM"
	OppgavetypeJournalforing = "JFR"
	OppgavetypeBehandleSak   = "BEH_SAK"
)

// ErrBarnebriller is returned by Describe; barnebriller cases are classified
// from the chosen reasons instead, see Barnebriller.
var ErrBarnebriller = errors.New("sakstype BARNEBRILLER must be classified from valgteÅrsaker")

// ConfigurationError means a value has no entry in a mapping table.
type ConfigurationError struct {
	Field string
	Value string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no mapping for %s %q", e.Field, e.Value)
}

// Beskrivelse is the task description plus exactly one of Behandlingstype or
// Behandlingstema.
type Beskrivelse struct {
	Beskrivelse     string
	Behandlingstype string
	Behandlingstema string
}

type koder struct {
	beskrivelse string
	norm        string
	hoy         string
}

var sakstypeKoder = map[Sakstype]koder{
	SakstypeSoknad:          {beskrivelse: "Digital søknad om hjelpemidler", norm: "ae0227", hoy: "ab0520"},
	SakstypeBestilling:      {beskrivelse: "Digital søknad om hjelpemidler", norm: "ae0281", hoy: "ab0520"},
	SakstypeBytte:           {beskrivelse: "Digitalt bytte av hjelpemidler", norm: "ae0273", hoy: "ab0521"},
	SakstypeBrukerpassbytte: {beskrivelse: "Digitalt bytte av hjelpemidler", norm: "ae0273", hoy: "ab0521"},
}

func (s Sakstype) Describe(prioritet Prioritet) (Beskrivelse, error) {
	if s == SakstypeBarnebriller {
		return Beskrivelse{}, ErrBarnebriller
	}
	k, ok := sakstypeKoder[s]
	if !ok {
		return Beskrivelse{}, &ConfigurationError{Field: "sakstype", Value: string(s)}
	}

	switch prioritet {
	case PrioritetNorm:
		return Beskrivelse{Beskrivelse: k.beskrivelse, Behandlingstype: k.norm}, nil
	case PrioritetHoy:
		return Beskrivelse{Beskrivelse: k.beskrivelse, Behandlingstema: k.hoy}, nil
	default:
		return Beskrivelse{}, &ConfigurationError{Field: "prioritet", Value: string(prioritet)}
	}
}

const (
	arsakOrdinaereVilkar  = "Behandlingsbriller/linser ordinære vilkår"
	arsakSaerskilteVilkar = "Behandlingsbriller/linser særskilte vilkår"
	barnebrillerFallback  = "Tilskudd ved kjøp av briller til barn"

	behandlingstemaOrdinaer   = "ab0427"
	behandlingstemaSaerskilt  = "ab0428"
	behandlingstemaBrillerStd = "ab0317"
)

// Barnebriller classifies a barnebriller case from the reasons chosen by the
// caseworker. Description is the first reason, with begrunnelse appended when
// present.
func Barnebriller(valgteArsaker []string, begrunnelse string) Beskrivelse {
	beskrivelse := barnebrillerFallback
	if len(valgteArsaker) > 0 {
		beskrivelse = valgteArsaker[0]
	}
	if strings.TrimSpace(begrunnelse) != "" {
		beskrivelse = beskrivelse + ": " + begrunnelse
	}

	tema := behandlingstemaBrillerStd
	switch {
	case containsArsak(valgteArsaker, arsakOrdinaereVilkar):
		tema = behandlingstemaOrdinaer
	case containsArsak(valgteArsaker, arsakSaerskilteVilkar):
		tema = behandlingstemaSaerskilt
	}

	return Beskrivelse{Beskrivelse: beskrivelse, Behandlingstema: tema}
}

func containsArsak(arsaker []string, want string) bool {
	for _, a := range arsaker {
		if strings.Contains(a, want) {
			return true
		}
	}
	return false
}
