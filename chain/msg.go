package chain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotWasmExecute is returned when a message is not a wasm execute message.
var ErrNotWasmExecute = errors.New("message is not a wasm execute")

// CosmosMsg is a chain message in the CosmWasm JSON representation. Exactly one variant is set.
type CosmosMsg struct {
	Bank     *BankMsg        `json:"bank,omitempty"`
	Wasm     *WasmMsg        `json:"wasm,omitempty"`
	Stargate *StargateMsg    `json:"stargate,omitempty"`
	Custom   json.RawMessage `json:"custom,omitempty"`
}

type BankMsg struct {
	Send *BankSendMsg `json:"send,omitempty"`
}

type BankSendMsg struct {
	ToAddress string `json:"to_address"`
	Amount    []Coin `json:"amount"`
}

type WasmMsg struct {
	Execute *WasmExecuteMsg `json:"execute,omitempty"`
	Migrate *WasmMigrateMsg `json:"migrate,omitempty"`
}

// WasmExecuteMsg executes a contract. Msg is the raw JSON message, base64 encoded on the wire.
type WasmExecuteMsg struct {
	ContractAddr string `json:"contract_addr"`
	Msg          []byte `json:"msg"`
	Funds        []Coin `json:"funds"`
}

type WasmMigrateMsg struct {
	ContractAddr string `json:"contract_addr"`
	NewCodeID    uint64 `json:"new_code_id"`
	Msg          []byte `json:"msg"`
}

// StargateMsg is a protobuf-encoded message. The codecs are provided by the caller.
type StargateMsg struct {
	TypeURL string `json:"type_url"`
	Value   []byte `json:"value"`
}

// NewWasmExecuteMsg returns a wasm execute message with msg JSON encoded.
func NewWasmExecuteMsg(contract string, msg any, funds ...Coin) (CosmosMsg, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return CosmosMsg{}, fmt.Errorf("failed to encode execute msg for %s: %w", contract, err)
	}
	if funds == nil {
		funds = []Coin{}
	}

	return CosmosMsg{
		Wasm: &WasmMsg{
			Execute: &WasmExecuteMsg{ContractAddr: contract, Msg: raw, Funds: funds},
		},
	}, nil
}

// NewBankSendMsg returns a bank send message.
func NewBankSendMsg(to string, amount ...Coin) CosmosMsg {
	return CosmosMsg{Bank: &BankMsg{Send: &BankSendMsg{ToAddress: to, Amount: amount}}}
}

// WasmExecute returns the wasm execute variant, if set.
func (m CosmosMsg) WasmExecute() (*WasmExecuteMsg, bool) {
	if m.Wasm == nil || m.Wasm.Execute == nil {
		return nil, false
	}

	return m.Wasm.Execute, true
}

// DecodeWasmExecute decodes the inner execute msg of m into out and returns the target contract.
func DecodeWasmExecute(m CosmosMsg, out any) (string, error) {
	exec, ok := m.WasmExecute()
	if !ok {
		return "", ErrNotWasmExecute
	}
	if err := json.Unmarshal(exec.Msg, out); err != nil {
		return "", fmt.Errorf("failed to decode execute msg for %s: %w", exec.ContractAddr, err)
	}

	return exec.ContractAddr, nil
}
