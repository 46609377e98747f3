package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "C_CND_000001", want: "C_CND_000001"},
		{name: "padded", in: "  C_CND_000002  ", want: "C_CND_000002"},
		{name: "blank", in: "", want: ""},
		{name: "whitespace only", in: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ID(tt.in))
		})
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string // "" means absent
	}{
		{name: "month day year", in: "1/2/2022", want: "2022-01-02"},
		{name: "zero padded", in: "01/02/2022", want: "2022-01-02"},
		{name: "double digit", in: "11/22/2022", want: "2022-11-22"},
		{name: "iso fallback", in: "2022-11-22", want: "2022-11-22"},
		{name: "blank", in: "", want: ""},
		{name: "whitespace", in: "  ", want: ""},
		{name: "garbage", in: "yesterday", want: ""},
		{name: "impossible month", in: "13/45/2022", want: ""},
		{name: "iso shape only", in: "2022-13-45", want: ""},
		{name: "two digit year", in: "1/2/22", want: ""},
		{name: "iso without padding", in: "2022-1-2", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Date(tt.in)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func TestDateFirstPatternWins(t *testing.T) {
	// A slash date never gets a second chance at the ISO parser.
	got := Date("3/4/2021")
	require.NotNil(t, got)
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 4, got.Day())
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lower", in: "toyota", want: "Toyota"},
		{name: "upper", in: "PASSENGER", want: "Passenger"},
		{name: "multi word", in: "middle   east", want: "Middle   East"},
		{name: "apostrophe", in: "o'brien", want: "O'Brien"},
		{name: "hyphenated", in: "double-decker", want: "Double-Decker"},
		{name: "blank", in: "  ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestGender(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "single letter m", in: "M", want: "Male"},
		{name: "male lower", in: "male", want: "Male"},
		{name: "man mixed case", in: "Man", want: "Male"},
		{name: "single letter f", in: "f", want: "Female"},
		{name: "female", in: "FEMALE", want: "Female"},
		{name: "woman", in: "woman", want: "Female"},
		{name: "blank", in: "", want: ""},
		{name: "pass through", in: "NB", want: "Nb"},
		{name: "pass through word", in: "nonbinary", want: "Nonbinary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Gender(tt.in))
		})
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		absent  bool
		wantErr error
	}{
		{name: "plain", in: "45000", want: 45000},
		{name: "currency symbol", in: "$45,000", want: 45000},
		{name: "decimal", in: "$1,234.56", want: 1234.56},
		{name: "suffix text", in: "45000 USD", want: 45000},
		{name: "blank", in: "", absent: true},
		{name: "whitespace", in: "  ", absent: true},
		{name: "symbols only", in: "$$", wantErr: ErrNotNumeric},
		{name: "letters only", in: "N/A", wantErr: ErrNotNumeric},
		{name: "stray punctuation", in: "..--", wantErr: ErrNotNumeric},
		{name: "negative", in: "-500", wantErr: ErrNegativeAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Amount(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			if tt.absent {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
		})
	}
}

func TestEngine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single mojibake",
			in:   "DoubleÂ Overhead Camshaft",
			want: "Double Overhead Camshaft",
		},
		{
			name: "double mojibake",
			in:   "DoubleÃ‚Â Overhead Camshaft",
			want: "Double Overhead Camshaft",
		},
		{name: "whitespace collapse", in: "dohc    v8", want: "Dohc V8"},
		{name: "clean input", in: "Overhead Camshaft", want: "Overhead Camshaft"},
		{name: "blank", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Engine(tt.in))
		})
	}
}

func TestOpaque(t *testing.T) {
	assert.Equal(t, "06457-3834", Opaque(" 06457-3834 "))
	assert.Equal(t, "", Opaque("   "))
	// No case transformation on opaque identifiers.
	assert.Equal(t, "aBc123", Opaque("aBc123"))
}
