package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoomName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "plain", in: "office-3"},
		{name: "single char", in: "r"},
		{name: "max length", in: strings.Repeat("a", MaxRoomNameLen)},
		{name: "empty", in: "", wantErr: true},
		{name: "too long", in: strings.Repeat("a", MaxRoomNameLen+1), wantErr: true},
		{name: "inner space", in: "room one", wantErr: true},
		{name: "newline", in: "room\n", wantErr: true},
		{name: "control char", in: "room\x00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rn, err := ParseRoomName(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRoom)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, RoomName(tt.in), rn)
		})
	}
}

func TestParseOrientation(t *testing.T) {
	assert.Equal(t, OrientationLeft, ParseOrientation("left"))
	assert.Equal(t, OrientationRight, ParseOrientation("right"))
	assert.Equal(t, OrientationBack, ParseOrientation("back"))
	assert.Equal(t, OrientationFront, ParseOrientation("front"))
	assert.Equal(t, OrientationFront, ParseOrientation(""), "unknown values fall back to front")
	assert.Equal(t, OrientationFront, ParseOrientation("sideways"))
}

func TestSpawnPosition(t *testing.T) {
	for range 50 {
		pos := SpawnPosition(100)
		assert.GreaterOrEqual(t, pos.X, 0.0)
		assert.Less(t, pos.X, 100.0)
		assert.GreaterOrEqual(t, pos.Y, 0.0)
		assert.Less(t, pos.Y, 100.0)
		assert.Equal(t, OrientationFront, pos.Orientation)
	}

	// A broken extent falls back to the default spawn area.
	pos := SpawnPosition(0)
	assert.Less(t, pos.X, DefaultSpawnExtent)
	assert.Less(t, pos.Y, DefaultSpawnExtent)
}
