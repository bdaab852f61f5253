package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "ali@example.com", "ali@example.com", false},
		{"uppercase and spaces", "  Ali@Example.COM ", "ali@example.com", false},
		{"html stripped", "<b>ali@example.com</b>", "ali@example.com", false},
		{"script stripped", "<script>x</script>ali@example.com", "xali@example.com", false},
		{"missing domain", "ali@", "", true},
		{"missing tld", "ali@example", "", true},
		{"embedded space", "a li@example.com", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Email(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmailIdempotent(t *testing.T) {
	first, err := Email("  User@Example.Com ")
	require.NoError(t, err)
	second, err := Email(first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"local format", "0550 12 34 56", false},
		{"international", "+213 (550) 123-456", false},
		{"letters rejected", "0550 call me", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Phone(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrderToken(t *testing.T) {
	got, err := OrderToken("AB12CD34")
	require.NoError(t, err)
	assert.Equal(t, "AB12CD34", got)

	got, err = OrderToken("  AB12CD34  ")
	require.NoError(t, err)
	assert.Equal(t, "AB12CD34", got)

	for _, bad := range []string{"ab12cd34", "AB12CD3", "AB12CD345", "AB12-D34", ""} {
		_, err := OrderToken(bad)
		assert.Error(t, err, "token %q should be rejected", bad)
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"dinar display string", "1800 DA", 1800, false},
		{"dollar with decimals", "$12.50", 12.5, false},
		{"thousands separator", "1,800 DA", 1800, false},
		{"plain number", "42", 42, false},
		{"negative", "-5", 0, true},
		{"no digits", "free", 0, true},
		{"empty", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Amount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMessageText(t *testing.T) {
	assert.Equal(t, "scriptalert(1)/script Ali", MessageText(`<script>alert(1)</script> Ali`))
	assert.Equal(t, "Ali", MessageText(`"Ali"`))
	assert.NotContains(t, MessageText("<b>Bob & Co</b>"), "<")
	assert.NotContains(t, MessageText("<b>Bob & Co</b>"), "&")
}
