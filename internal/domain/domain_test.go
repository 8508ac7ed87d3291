package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_Table(t *testing.T) {
	tests := []struct {
		sakstype        Sakstype
		prioritet       Prioritet
		beskrivelse     string
		behandlingstype string
		behandlingstema string
	}{
		{SakstypeSoknad, PrioritetNorm, "Digital søknad om hjelpemidler", "ae0227", ""},
		{SakstypeSoknad, PrioritetHoy, "Digital søknad om hjelpemidler", "", "ab0520"},
		{SakstypeBestilling, PrioritetNorm, "Digital søknad om hjelpemidler", "ae0281", ""},
		{SakstypeBestilling, PrioritetHoy, "Digital søknad om hjelpemidler", "", "ab0520"},
		{SakstypeBytte, PrioritetNorm, "Digitalt bytte av hjelpemidler", "ae0273", ""},
		{SakstypeBytte, PrioritetHoy, "Digitalt bytte av hjelpemidler", "", "ab0521"},
		{SakstypeBrukerpassbytte, PrioritetNorm, "Digitalt bytte av hjelpemidler", "ae0273", ""},
		{SakstypeBrukerpassbytte, PrioritetHoy, "Digitalt bytte av hjelpemidler", "", "ab0521"},
	}

	for _, tt := range tests {
		t.Run(string(tt.sakstype)+"/"+string(tt.prioritet), func(t *testing.T) {
			got, err := tt.sakstype.Describe(tt.prioritet)
			require.NoError(t, err)
			assert.Equal(t, tt.beskrivelse, got.Beskrivelse)
			assert.Equal(t, tt.behandlingstype, got.Behandlingstype)
			assert.Equal(t, tt.behandlingstema, got.Behandlingstema)
			assert.True(t, (got.Behandlingstype == "") != (got.Behandlingstema == ""), "exactly one code must be set")
		})
	}
}

func TestDescribe_RejectsBarnebriller(t *testing.T) {
	for _, p := range []Prioritet{PrioritetNorm, PrioritetHoy} {
		_, err := SakstypeBarnebriller.Describe(p)
		assert.ErrorIs(t, err, ErrBarnebriller)
	}
}

func TestDescribe_UnknownValues(t *testing.T) {
	_, err := Sakstype("HJELPEMIDDELKORT").Describe(PrioritetNorm)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "sakstype", cfgErr.Field)

	_, err = SakstypeSoknad.Describe(Prioritet("LAV"))
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "prioritet", cfgErr.Field)
}

func TestPrioritetFor(t *testing.T) {
	assert.Equal(t, PrioritetHoy, PrioritetFor(true))
	assert.Equal(t, PrioritetNorm, PrioritetFor(false))
}

func TestBarnebriller(t *testing.T) {
	tests := []struct {
		name        string
		arsaker     []string
		begrunnelse string
		beskrivelse string
		tema        string
	}{
		{
			name:        "saerskilte vilkar",
			arsaker:     []string{"Behandlingsbriller/linser særskilte vilkår"},
			beskrivelse: "Behandlingsbriller/linser særskilte vilkår",
			tema:        "ab0428",
		},
		{
			name:        "ordinaere vilkar wins",
			arsaker:     []string{"Behandlingsbriller/linser særskilte vilkår", "Behandlingsbriller/linser ordinære vilkår"},
			beskrivelse: "Behandlingsbriller/linser særskilte vilkår",
			tema:        "ab0427",
		},
		{
			name:        "no reasons",
			beskrivelse: "Tilskudd ved kjøp av briller til barn",
			tema:        "ab0317",
		},
		{
			name:        "begrunnelse appended",
			arsaker:     []string{"Annet"},
			begrunnelse: "mangler kvittering",
			beskrivelse: "Annet: mangler kvittering",
			tema:        "ab0317",
		},
		{
			name:        "blank begrunnelse ignored",
			arsaker:     []string{"Annet"},
			begrunnelse: "  ",
			beskrivelse: "Annet",
			tema:        "ab0317",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Barnebriller(tt.arsaker, tt.begrunnelse)
			assert.Equal(t, tt.beskrivelse, got.Beskrivelse)
			assert.Equal(t, tt.tema, got.Behandlingstema)
			assert.Empty(t, got.Behandlingstype)
		})
	}
}

func TestRemapEnhetsnr(t *testing.T) {
	got, changed := RemapEnhetsnr("4708")
	assert.Equal(t, "4707", got)
	assert.True(t, changed)

	got, changed = RemapEnhetsnr("1190")
	assert.Empty(t, got)
	assert.True(t, changed)

	got, changed = RemapEnhetsnr("4707")
	assert.Equal(t, "4707", got)
	assert.False(t, changed)

	for _, code := range []string{"4708", "4709", "4717", "4720", "1190", "4703", ""} {
		once, _ := RemapEnhetsnr(code)
		twice, _ := RemapEnhetsnr(once)
		assert.Equal(t, once, twice, "remap of %q is not idempotent", code)
	}
}
