package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerInet(t *testing.T) {
	inet, err := ServerInet()
	require.NoError(t, err)

	assert.True(t, inet.Valid)
	assert.NotNil(t, inet.IPNet.IP.To4())
	ones, bits := inet.IPNet.Mask.Size()
	assert.Equal(t, 32, ones)
	assert.Equal(t, 32, bits)
}
