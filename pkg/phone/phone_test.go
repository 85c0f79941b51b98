package phone

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{name: "local format", input: "0788123456", want: "250788123456@c.us"},
		{name: "bare subscriber", input: "788123456", want: "250788123456@c.us"},
		{name: "full international", input: "250788123456", want: "250788123456@c.us"},
		{name: "plus prefix", input: "+250788123456", want: "250788123456@c.us"},
		{name: "spaces and dashes", input: "078-812 34 56", want: "250788123456@c.us"},
		{name: "parentheses", input: "(0788) 123 456", want: "250788123456@c.us"},
		{name: "country code too short", input: "25078812345", wantErr: "expected 12 digits with country code 250"},
		{name: "country code too long", input: "2507881234567", wantErr: "expected 12 digits with country code 250"},
		{name: "local too short", input: "078812345", wantErr: "expected 10 digits starting with 0"},
		{name: "local too long", input: "07881234567", wantErr: "expected 10 digits starting with 0"},
		{name: "subscriber too short", input: "88123456", wantErr: "expected 250XXXXXXXXX, 0XXXXXXXXX, or XXXXXXXXX"},
		{name: "letters only", input: "abc", wantErr: "expected 250XXXXXXXXX, 0XXXXXXXXX, or XXXXXXXXX"},
		{name: "empty input", input: "", wantErr: "expected 250XXXXXXXXX, 0XXXXXXXXX, or XXXXXXXXX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				var invalidErr *InvalidFormatError
				require.ErrorAs(t, err, &invalidErr)
				assert.Equal(t, tt.wantErr, invalidErr.Reason)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	first, err := Normalize("250788123456")
	require.NoError(t, err)

	second, err := Normalize(strings.TrimSuffix(first, UserServer))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNormalizeCanonicalSuffix(t *testing.T) {
	got, err := Normalize("0722000111")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got, UserServer))
	assert.Len(t, strings.TrimSuffix(got, UserServer), 12)
}
