package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBus(t *testing.T) {
	b, err := NewBus("BUS-101", "Tata Starbus", 42, StatusActive, "Gurpreet Singh", "+91-98765-43210")
	require.NoError(t, err)

	assert.Equal(t, "BUS-101", b.Number())
	assert.Equal(t, 42, b.Capacity())
	assert.Equal(t, StatusActive, b.Status())
	assert.NotEqual(t, b.ID().String(), "")
}

func TestNewBus_Validation(t *testing.T) {
	_, err := NewBus("", "Tata Starbus", 42, StatusActive, "", "")
	assert.Error(t, err)

	_, err = NewBus("BUS-101", "Tata Starbus", 0, StatusActive, "", "")
	assert.Error(t, err)

	_, err = NewBus("BUS-101", "Tata Starbus", 42, Status("PARKED"), "", "")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("active")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, s)

	_, err = ParseStatus("broken")
	assert.Error(t, err)
}

func TestUpdateDetails(t *testing.T) {
	b, err := NewBus("BUS-101", "Tata Starbus", 42, StatusActive, "", "")
	require.NoError(t, err)

	require.NoError(t, b.UpdateDetails("BUS-102", "Volvo 9400", 50, StatusInactive, "Amar", "12345"))
	assert.Equal(t, "BUS-102", b.Number())
	assert.Equal(t, StatusInactive, b.Status())

	assert.Error(t, b.UpdateDetails("BUS-102", "Volvo 9400", -1, StatusInactive, "", ""))
}
