package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "persian digits", in: "۰۹۱۲۳۴۵۶۷۸۹", want: "09123456789"},
		{name: "arabic-indic digits", in: "٠٩١٢٣٤٥٦٧٨٩", want: "09123456789"},
		{name: "formatted international", in: "+98 (912) 345-6789", want: "+989123456789"},
		{name: "mixed glyphs", in: "۰912 ٣٤٥ 6789", want: "09123456789"},
		{name: "letters", in: "abc", wantErr: true},
		{name: "too short", in: "1234567", wantErr: true},
		{name: "too long", in: "1234567890123456", wantErr: true},
		{name: "plus in the middle", in: "12+34567890", wantErr: true},
		{name: "empty", in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePhone(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateTrackingCode(t *testing.T) {
	assert.NoError(t, ValidateTrackingCode("004217"))
	assert.Error(t, ValidateTrackingCode("4217"))
	assert.Error(t, ValidateTrackingCode("12345a"))
}

func TestValidateContent(t *testing.T) {
	assert.NoError(t, ValidateContent("need a nurse on weekends"))
	assert.Error(t, ValidateContent(" "))
	assert.Error(t, ValidateContent(strings.Repeat("x", MaxContentLength+1)))
}

func TestValidateStatus(t *testing.T) {
	status, err := ValidateStatus(" awaiting payment ")
	require.NoError(t, err)
	assert.Equal(t, "awaiting payment", status)

	_, err = ValidateStatus("\t")
	assert.Error(t, err)
	_, err = ValidateStatus(strings.Repeat("x", MaxStatusLength+1))
	assert.Error(t, err)
}
