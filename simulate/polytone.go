package simulate

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/samber/lo"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain/network"
)

// ErrMissingProxy is returned when a message is relayed to a chain the sender has no polytone
// proxy on.
var ErrMissingProxy = errors.New("no polytone proxy on destination chain")

// polytoneExecuteMsg is the execute message of a polytone note.
type polytoneExecuteMsg struct {
	Execute *struct {
		Msgs           []chain.CosmosMsg `json:"msgs"`
		TimeoutSeconds json.RawMessage   `json:"timeout_seconds"`
		Callback       json.RawMessage   `json:"callback,omitempty"`
	} `json:"execute"`
}

// RelayedMsgs are the messages a batch relays to one destination chain.
type RelayedMsgs struct {
	ChainID string
	// Proxy is the sender of the messages on ChainID.
	Proxy string
	Msgs  []chain.CosmosMsg
}

// DecodeRelayed finds the messages of msgs sent through a polytone note on sourceChainID and
// groups them by destination chain, keeping their order. Groups are sorted by chain id.
func DecodeRelayed(
	sourceChainID string, msgs []chain.CosmosMsg, conns []network.PolytoneConnection, proxies map[string]string,
) ([]RelayedMsgs, error) {
	notes := lo.KeyBy(
		lo.Filter(conns, func(c network.PolytoneConnection, _ int) bool { return c.SourceChainID == sourceChainID }),
		func(c network.PolytoneConnection) string { return c.Note },
	)

	grouped := make(map[string][]chain.CosmosMsg)
	for _, msg := range msgs {
		exec, ok := msg.WasmExecute()
		if !ok {
			continue
		}
		conn, ok := notes[exec.ContractAddr]
		if !ok {
			continue
		}

		var decoded polytoneExecuteMsg
		if _, err := chain.DecodeWasmExecute(msg, &decoded); err != nil || decoded.Execute == nil {
			continue
		}
		grouped[conn.DestinationChainID] = append(grouped[conn.DestinationChainID], decoded.Execute.Msgs...)
	}

	relayed := make([]RelayedMsgs, 0, len(grouped))
	for _, chainID := range slices.Sorted(maps.Keys(grouped)) {
		proxy, ok := proxies[chainID]
		if !ok || proxy == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingProxy, chainID)
		}
		relayed = append(relayed, RelayedMsgs{ChainID: chainID, Proxy: proxy, Msgs: grouped[chainID]})
	}

	return relayed, nil
}
