package utils

import (
	"strings"
	"testing"

	"marketing-crm/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"9876543210", "9876543210", true},
		{"6000000000", "6000000000", true},
		{"7123456789", "7123456789", true},
		{"8999999999", "8999999999", true},
		{"  9876543210 ", "9876543210", true},
		{"5876543210", "", false},
		{"0876543210", "", false},
		{"1876543210", "", false},
		{"987654321", "", false},
		{"98765432101", "", false},
		{"98765a3210", "", false},
		{"+919876543210", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidatePhone(tt.input)
			if !tt.ok {
				require.Error(t, err)
				assert.ErrorIs(t, err, types.ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePhoneLeadingDigits(t *testing.T) {
	for d := '0'; d <= '9'; d++ {
		_, err := ValidatePhone(string(d) + "123456789")
		if d >= '6' {
			assert.NoError(t, err, "leading digit %c", d)
		} else {
			assert.Error(t, err, "leading digit %c", d)
		}
	}
}

func TestValidateGST(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"27AABCU9603R1ZM", "27AABCU9603R1ZM", true},
		{"27aabcu9603r1zm", "27AABCU9603R1ZM", true},
		{" 29ABCDE1234F1Z5 ", "29ABCDE1234F1Z5", true},
		{"27AABCU9603R1Z", "", false},
		{"27AABCU9603R1ZMX", "", false},
		{"27AABCU9603R1Z-", "", false},
		{"27AABCU 603R1ZM", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateGST(tt.input)
			if !tt.ok {
				assert.ErrorIs(t, err, types.ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPANFromGST(t *testing.T) {
	assert.Equal(t, "AABCU9603R", PANFromGST("27AABCU9603R1ZM"))
	assert.Equal(t, "", PANFromGST("27AAB"))
}

func TestValidateEmail(t *testing.T) {
	email, err := ValidateEmail(" Admin@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", email)

	_, err = ValidateEmail("not-an-email")
	assert.ErrorIs(t, err, types.ErrInvalidFormat)

	_, err = ValidateEmail("Name <name@example.com>")
	assert.Error(t, err)
}

func TestValidateStruct(t *testing.T) {
	type request struct {
		Phone   string `validate:"required,phone"`
		GST     string `validate:"omitempty,gst"`
		Remarks string `validate:"required,max=10"`
	}

	assert.NoError(t, ValidateStruct(request{Phone: "9876543210", Remarks: "ok"}))

	err := ValidateStruct(request{Phone: "1234", Remarks: "ok"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Phone")

	err = ValidateStruct(request{Phone: "9876543210", GST: "bad", Remarks: "ok"})
	assert.ErrorIs(t, err, types.ErrInvalidFormat)

	err = ValidateStruct(request{Phone: "9876543210", Remarks: strings.Repeat("x", 11)})
	assert.Contains(t, err.Error(), "at most 10")
}
