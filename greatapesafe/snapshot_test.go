package greatapesafe

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThousands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		give string
		want string
	}{
		{give: "0.000000000000000000", want: "0.000000000000000000"},
		{give: "1234.5", want: "1,234.5"},
		{give: "1234567", want: "1,234,567"},
		{give: "-1234567.89", want: "-1,234,567.89"},
		{give: "999", want: "999"},
	}

	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, thousands(tt.give))
		})
	}
}

func TestWriteSnapshotCSV(t *testing.T) {
	t.Parallel()

	dest := filepath.Join(t.TempDir(), "claims.csv")
	rows := []deltaRow{
		{symbol: "AURABAL", delta: decimal.RequireFromString("12.5")},
		{symbol: "BADGER", delta: decimal.RequireFromString("-3")},
	}

	require.NoError(t, writeSnapshotCSV(dest, rows))

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"token", "claimable_amount"}, records[0])
	assert.Equal(t, []string{"AURABAL", "12.5"}, records[1])
	assert.Equal(t, []string{"BADGER", "-3"}, records[2])
}

func TestSafe_PrintSnapshot_NoSnapshot(t *testing.T) {
	t.Parallel()

	safe := newTestSafe(t)
	err := safe.PrintSnapshot(context.Background(), "")
	require.ErrorIs(t, err, ErrNoSnapshot)
}
