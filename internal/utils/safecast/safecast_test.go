package safecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_IntToUint8(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    int
		want    uint8
		wantErr bool
	}{
		{name: "Valid int within range", give: 1, want: 1},
		{name: "Negative int", give: -1, wantErr: true},
		{name: "Int exceeds uint8 max value", give: int(math.MaxUint8 + 1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := IntToUint8(tt.give)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
