package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClientEvent(t *testing.T) {
	tests := []struct {
		name string
		data string
		want ClientEvent
	}{
		{
			name: "create room",
			data: `{"type":"CREATE_ROOM"}`,
			want: CreateRoom{},
		},
		{
			name: "join room",
			data: `{"type":"JOIN_ROOM","roomCode":"AB12CD"}`,
			want: JoinRoom{RoomCode: "AB12CD"},
		},
		{
			name: "update life",
			data: `{"type":"UPDATE_LIFE","playerId":"7","life":35}`,
			want: UpdateLife{PlayerID: "7", Life: 35},
		},
		{
			name: "update commander damage",
			data: `{"type":"UPDATE_COMMANDER_DAMAGE","sourcePlayerId":"1","targetPlayerId":"2","damage":3}`,
			want: UpdateCommanderDamage{SourcePlayerID: "1", TargetPlayerID: "2", Damage: 3},
		},
		{
			name: "update name",
			data: `{"type":"UPDATE_NAME","playerId":"7","name":"Muldrotha"}`,
			want: UpdateName{PlayerID: "7", Name: "Muldrotha"},
		},
		{
			name: "reset game",
			data: `{"type":"RESET_GAME"}`,
			want: ResetGame{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClientEvent([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseClientEventUnknownType(t *testing.T) {
	_, err := ParseClientEvent([]byte(`{"type":"DANCE_PARTY"}`))
	require.ErrorIs(t, err, ErrUnknownType)

	// A frame with no type at all is unknown, not malformed.
	_, err = ParseClientEvent([]byte(`{"life":35}`))
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestParseClientEventMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{not json at all`},
		{"truncated", `{"type":"UPDATE_LIFE",`},
		{"wrong field type", `{"type":"UPDATE_LIFE","playerId":"7","life":"forty"}`},
		{"array envelope", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseClientEvent([]byte(tt.data))
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrUnknownType)
		})
	}
}
