package greatapesafe

import (
	"context"
	"encoding/csv"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/minanew12/badger-multisig/bindings"
)

// NativeTokenAddress is the pseudo-address under which the chain's native
// balance is tracked in snapshots.
var NativeTokenAddress = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// snapshotPrecision is the number of decimal digits shown for balances.
const snapshotPrecision = 18

// snapshotEntry is one tracked token in a snapshot.
type snapshotEntry struct {
	address  common.Address
	symbol   string
	decimals int32
	before   decimal.Decimal // raw mantissa
}

// Snapshot is a recorded set of token balances at a point in time, used to
// compute deltas after an operation sequence.
type Snapshot struct {
	entries []snapshotEntry
}

// deltaRow is a computed before/after/delta line in token units.
type deltaRow struct {
	symbol string
	before decimal.Decimal
	after  decimal.Decimal
	delta  decimal.Decimal
}

// TakeSnapshot records the Safe's native balance plus the balances of the
// given tokens. Duplicate token addresses are recorded once. Taking a new
// snapshot replaces any previous one.
func (s *Safe) TakeSnapshot(ctx context.Context, tokens []common.Address) error {
	LoggerFrom(ctx).Infof("snapshotting %s...", s.address.Hex())

	native, err := s.Balance(ctx)
	if err != nil {
		return err
	}

	snap := &Snapshot{}
	snap.entries = append(snap.entries, snapshotEntry{
		address:  NativeTokenAddress,
		symbol:   s.reg.Label(),
		decimals: snapshotPrecision,
		before:   decimal.NewFromBigInt(native, 0),
	})

	opts := &bind.CallOpts{Context: ctx}
	for _, token := range tokens {
		if snap.contains(token) {
			continue
		}

		erc20 := bindings.NewERC20(token, s.client)

		symbol, symErr := erc20.Symbol(opts)
		if symErr != nil {
			// tokens without a symbol method are labeled by address
			symbol = token.Hex()
		}

		decimals, decErr := erc20.Decimals(opts)
		if decErr != nil {
			return decErr
		}

		balance, balErr := erc20.BalanceOf(opts, s.address)
		if balErr != nil {
			return balErr
		}

		snap.entries = append(snap.entries, snapshotEntry{
			address:  token,
			symbol:   symbol,
			decimals: int32(decimals),
			before:   decimal.NewFromBigInt(balance, 0),
		})
	}

	s.snapshot = snap

	return nil
}

func (snap *Snapshot) contains(token common.Address) bool {
	for _, entry := range snap.entries {
		if entry.address == token {
			return true
		}
	}

	return false
}

// PrintSnapshot re-reads the tracked balances, logs the nonzero deltas as a
// table and optionally exports them to a CSV file.
func (s *Safe) PrintSnapshot(ctx context.Context, csvDestination string) error {
	table, err := s.renderSnapshot(ctx, csvDestination)
	if err != nil {
		return err
	}

	LoggerFrom(ctx).Infof("snapshot result for %s:\n%s", s.address.Hex(), table)

	return nil
}

func (s *Safe) renderSnapshot(ctx context.Context, csvDestination string) (string, error) {
	rows, err := s.snapshotDeltas(ctx)
	if err != nil {
		return "", err
	}

	if csvDestination != "" {
		if err = writeSnapshotCSV(csvDestination, rows); err != nil {
			return "", err
		}
	}

	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	table.SetHeader([]string{"token", "balance_before", "balance_after", "balance_delta"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, row := range rows {
		table.Append([]string{
			row.symbol,
			thousands(row.before.StringFixed(snapshotPrecision)),
			thousands(row.after.StringFixed(snapshotPrecision)),
			thousands(row.delta.StringFixed(snapshotPrecision)),
		})
	}
	table.Render()

	return sb.String(), nil
}

// snapshotDeltas re-reads the current balances and returns rows with a
// nonzero delta, in token units.
func (s *Safe) snapshotDeltas(ctx context.Context) ([]deltaRow, error) {
	if s.snapshot == nil {
		return nil, ErrNoSnapshot
	}

	opts := &bind.CallOpts{Context: ctx}
	rows := make([]deltaRow, 0, len(s.snapshot.entries))
	for _, entry := range s.snapshot.entries {
		var after decimal.Decimal
		if entry.address == NativeTokenAddress {
			balance, err := s.Balance(ctx)
			if err != nil {
				return nil, err
			}
			after = decimal.NewFromBigInt(balance, 0)
		} else {
			balance, err := bindings.NewERC20(entry.address, s.client).BalanceOf(opts, s.address)
			if err != nil {
				return nil, err
			}
			after = decimal.NewFromBigInt(balance, 0)
		}

		delta := after.Sub(entry.before)
		if delta.IsZero() {
			continue
		}

		rows = append(rows, deltaRow{
			symbol: entry.symbol,
			before: entry.before.Shift(-entry.decimals),
			after:  after.Shift(-entry.decimals),
			delta:  delta.Shift(-entry.decimals),
		})
	}

	return rows, nil
}

// writeSnapshotCSV exports the deltas as `token,claimable_amount` rows.
func writeSnapshotCSV(destination string, rows []deltaRow) error {
	f, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err = w.Write([]string{"token", "claimable_amount"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err = w.Write([]string{row.symbol, row.delta.String()}); err != nil {
			return err
		}
	}
	w.Flush()

	return w.Error()
}

// thousands inserts comma separators into the integer part of a formatted
// decimal string.
func thousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	var sb strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}

	out := sb.String()
	if hasFrac {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}

	return out
}
