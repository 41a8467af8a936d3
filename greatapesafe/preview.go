package greatapesafe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/minanew12/badger-multisig/types"
)

// fallbackCallGas is used when a single batched call cannot be estimated,
// typically because it depends on state changes from an earlier call in the
// same batch (approve followed by deposit). eth_estimateGas runs each call
// against latest state, so such reverts are expected and non-fatal.
const fallbackCallGas = 150_000

// PreviewResult holds the outcome of previewing the recorded batch.
type PreviewResult struct {
	GasUsed uint64
	Traces  []json.RawMessage
}

// Preview estimates the gas usage of the recorded batch by estimating each
// call from the Safe's address and summing. With withTrace set, a
// debug_traceCall call trace is collected per call; nodes without the debug
// namespace just yield no traces.
func (s *Safe) Preview(ctx context.Context, withTrace bool) (*PreviewResult, error) {
	if len(s.batch) == 0 {
		return nil, ErrEmptyBatch
	}

	logger := LoggerFrom(ctx)
	result := &PreviewResult{}

	for i, call := range s.batch {
		to := call.To
		msg := ethereum.CallMsg{
			From:  s.address,
			To:    &to,
			Value: call.Value,
			Data:  call.Data,
		}

		gas, err := s.client.EstimateGas(ctx, msg)
		if err != nil {
			logger.Warnf("preview: call %d to %s failed estimation (%v), assuming %d gas", i, to.Hex(), err, fallbackCallGas)
			gas = fallbackCallGas
		}
		result.GasUsed += gas

		if withTrace {
			trace, traceErr := s.traceCall(ctx, msg)
			if traceErr != nil {
				logger.Warnf("preview: call trace unavailable for call %d: %v", i, traceErr)
				continue
			}
			result.Traces = append(result.Traces, trace)
		}
	}

	logger.Infof("previewed %d call(s), estimated gas %d", len(s.batch), result.GasUsed)

	return result, nil
}

// traceCall runs debug_traceCall with the call tracer against latest state.
func (s *Safe) traceCall(ctx context.Context, msg ethereum.CallMsg) (json.RawMessage, error) {
	args := map[string]any{
		"from": msg.From,
		"to":   msg.To,
		"data": hexutil.Encode(msg.Data),
	}
	if msg.Value != nil && msg.Value.Sign() > 0 {
		args["value"] = hexutil.EncodeBig(msg.Value)
	}

	var trace json.RawMessage
	err := s.rpcClient.CallContext(ctx, &trace, "debug_traceCall", args, "latest", map[string]any{"tracer": "callTracer"})
	if err != nil {
		return nil, err
	}

	return trace, nil
}

// DumpLog writes a debug log of the transaction, its preview and the
// balance snapshot (if taken) to logs/<timestamp>_<name>.log.
func (s *Safe) DumpLog(ctx context.Context, tx *types.SafeTx, preview *PreviewResult, name string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}

	path := filepath.Join("logs", fmt.Sprintf("%s_%s.log", time.Now().Format("20060102150405"), name))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	txJSON, err := json.MarshalIndent(tx, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(f, "safe_tx:\n%s\n\n", txJSON)

	if preview != nil {
		fmt.Fprintf(f, "estimated_gas: %d\n\n", preview.GasUsed)
		for i, trace := range preview.Traces {
			fmt.Fprintf(f, "call_trace[%d]:\n%s\n\n", i, trace)
		}
	}

	if s.snapshot != nil {
		table, renderErr := s.renderSnapshot(ctx, "")
		if renderErr != nil {
			return renderErr
		}
		fmt.Fprintf(f, "snapshot:\n%s\n", table)
	}

	LoggerFrom(ctx).Infof("dumped debug log to %s", path)

	return nil
}
