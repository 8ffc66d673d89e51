package query

import (
	"encoding/json"
	"fmt"
)

// Namespaces separate the cache layers. Indexer entries are refreshed before the chain entries
// they shadow.
const (
	NamespaceChain   = "chain"
	NamespaceIndexer = "indexer"
)

// Key identifies one cached query result.
type Key struct {
	Namespace string
	ChainID   string
	Address   string
	// Name is the query or formula name, e.g. "get_vote" or "daoProposalSingle/vote".
	Name string
	// Args must be JSON-encodable. Map keys are encoded in sorted order.
	Args map[string]any
}

// ChainKey returns a key in the chain namespace.
func ChainKey(chainID, address, name string, args map[string]any) Key {
	return Key{Namespace: NamespaceChain, ChainID: chainID, Address: address, Name: name, Args: args}
}

// IndexerKey returns a key in the indexer namespace.
func IndexerKey(chainID, address, formula string, args map[string]any) Key {
	return Key{Namespace: NamespaceIndexer, ChainID: chainID, Address: address, Name: formula, Args: args}
}

type keyJSON struct {
	Namespace string         `json:"ns"`
	ChainID   string         `json:"chain_id"`
	Address   string         `json:"address"`
	Name      string         `json:"name"`
	Args      map[string]any `json:"args,omitempty"`
}

// String returns the canonical JSON form of the key. Equal keys produce equal strings.
func (k Key) String() string {
	b, err := json.Marshal(keyJSON(k))
	if err != nil {
		return fmt.Sprintf("%s/%s/%s/%s/%v", k.Namespace, k.ChainID, k.Address, k.Name, k.Args)
	}

	return string(b)
}

// Equals returns true if both keys have the same canonical form.
func (k Key) Equals(other Key) bool {
	return k.String() == other.String()
}
