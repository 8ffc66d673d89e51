package chain

// Wasm events carry the emitting contract in this attribute.
const contractAddressAttribute = "_contract_address"

// Attribute is a key/value pair of an event.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is an event emitted by a transaction.
type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

// TxResponse is the result of a committed transaction.
type TxResponse struct {
	TxHash string  `json:"txhash"`
	Height int64   `json:"height"`
	Events []Event `json:"events"`
}

// FindWasmAttribute returns the first value of key among the wasm events emitted by contract.
func (r *TxResponse) FindWasmAttribute(contract, key string) (string, bool) {
	if r == nil {
		return "", false
	}

	for _, event := range r.Events {
		if event.Type != "wasm" {
			continue
		}

		emitter := ""
		for _, attr := range event.Attributes {
			if attr.Key == contractAddressAttribute {
				emitter = attr.Value
				break
			}
		}
		if emitter != contract {
			continue
		}

		for _, attr := range event.Attributes {
			if attr.Key == key {
				return attr.Value, true
			}
		}
	}

	return "", false
}

// WasmEvent builds a wasm event emitted by contract with the given key/value pairs.
func WasmEvent(contract string, kv ...string) Event {
	attrs := []Attribute{{Key: contractAddressAttribute, Value: contract}}
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, Attribute{Key: kv[i], Value: kv[i+1]})
	}

	return Event{Type: "wasm", Attributes: attrs}
}
