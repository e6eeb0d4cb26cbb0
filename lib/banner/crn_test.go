package banner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCRNs(t *testing.T) {
	testCases := []struct {
		input    string
		expected []string
	}{
		{input: "29626", expected: []string{"29626"}},
		{input: "29626, 12345 67890", expected: []string{"29626", "12345", "67890"}},
		{input: "  29626 ,12345\n", expected: []string{"29626", "12345"}},
		{input: "29626\r\n12345\r", expected: []string{"29626", "12345"}},
		{input: "29626, 29626", expected: []string{"29626", "29626"}},
	}

	for _, test := range testCases {
		crns, err := ParseCRNs(test.input)
		require.NoError(t, err, test.input)
		require.Equal(t, test.expected, crns, test.input)
	}
}

func TestParseCRNsInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "1234", "123456", "12a45", "29626 abc"} {
		_, err := ParseCRNs(input)
		require.Error(t, err, input)

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr), input)
	}
}

func TestValidateCRNs(t *testing.T) {
	require.NoError(t, ValidateCRNs(nil))
	require.NoError(t, ValidateCRNs([]string{"12345", "67890"}))

	err := ValidateCRNs([]string{"12345", "abc"})
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, "abc", vErr.CRN)
}
