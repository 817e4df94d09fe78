package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostalAddress(t *testing.T) {
	t.Run("defaults country to DE", func(t *testing.T) {
		addr, err := NewPostalAddress(" Hauptstr. 1 ", "10115", "Berlin", "", "")
		require.NoError(t, err)
		assert.Equal(t, "Hauptstr. 1", addr.Street)
		assert.Equal(t, "DE", addr.CountryCode)
		assert.True(t, addr.IsComplete())
	})

	t.Run("normalizes lowercase country", func(t *testing.T) {
		addr, err := NewPostalAddress("Ring 2", "1010", "Wien", "at", "")
		require.NoError(t, err)
		assert.Equal(t, "AT", addr.CountryCode)
	})

	t.Run("rejects unknown country", func(t *testing.T) {
		_, err := NewPostalAddress("Ring 2", "1010", "Wien", "XX1", "")
		assert.Error(t, err)
	})

	t.Run("incomplete without city", func(t *testing.T) {
		addr, err := NewPostalAddress("Ring 2", "", "", "", "")
		require.NoError(t, err)
		assert.False(t, addr.IsComplete())
		assert.False(t, addr.IsEmpty())
	})
}

func TestPostalAddress_CountryOrDefault(t *testing.T) {
	assert.Equal(t, "DE", PostalAddress{}.CountryOrDefault())
	assert.Equal(t, "CH", PostalAddress{CountryCode: "CH"}.CountryOrDefault())
}

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "empty defaults to EUR", input: "", want: "EUR"},
		{name: "lowercase accepted", input: "usd", want: "USD"},
		{name: "euro", input: "EUR", want: "EUR"},
		{name: "unknown rejected", input: "ABCD", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCurrency(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
