package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "ON", LedOn.String())
	assert.Equal(t, "RESET_FLUSH", ActionResetFlush.String())
	assert.Equal(t, "SERIAL_NUMBER", InfoSerialNumber.String())
	assert.Equal(t, "4BPP_HEATSHRINK", Img4bppHeatshrink.String())
	assert.Equal(t, "1BPP", Stream1bpp.String())
	assert.Equal(t, "MISSING_CFG_WRITE", DeviceErrMissingCfgWrite.String())
	assert.Equal(t, "UNKNOWN", LedState(9).String())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, ActionResetFlush.IsValid())
	assert.False(t, HoldFlushAction(2).IsValid())
	assert.True(t, Img8bpp.IsValid())
	assert.False(t, ImgFormat(0x04).IsValid())
	assert.True(t, Stream4bppHeatshrink.IsValid())
	assert.False(t, StreamFormat(0).IsValid())
	assert.False(t, DeviceErrorCode(0).IsValid())
}
