package module

import (
	"encoding/json"
	"fmt"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/feature"
)

// Admin is the admin of an instantiated module: a fixed address or the DAO core itself.
type Admin struct {
	Address    *AdminAddress `json:"address,omitempty"`
	CoreModule *struct{}     `json:"core_module,omitempty"`
}

type AdminAddress struct {
	Addr string `json:"addr"`
}

// AdminAddr returns an admin set to addr.
func AdminAddr(addr string) *Admin {
	return &Admin{Address: &AdminAddress{Addr: addr}}
}

// AdminCoreModule returns an admin set to the DAO core being instantiated.
func AdminCoreModule() *Admin {
	return &Admin{CoreModule: &struct{}{}}
}

// ModuleInstantiateInfo tells the DAO core how to instantiate one of its modules.
type ModuleInstantiateInfo struct {
	Admin  *Admin
	CodeID uint64
	// CodeHash is required on Secret Network.
	CodeHash string
	Label    string
	Msg      json.RawMessage
	Funds    []chain.Coin

	withFunds bool
}

type moduleInstantiateInfoJSON struct {
	Admin    *Admin       `json:"admin"`
	CodeID   uint64       `json:"code_id"`
	CodeHash string       `json:"code_hash,omitempty"`
	Label    string       `json:"label"`
	Msg      []byte       `json:"msg"`
	Funds    []chain.Coin `json:"funds,omitempty"`
}

// NewModuleInstantiateInfo encodes msg for a core contract of the given version. Cores that
// predate instantiate funds reject non-empty funds and never receive the field.
func NewModuleInstantiateInfo(
	coreVersion feature.ContractVersion, admin *Admin, codeID uint64, label string, msg any, funds ...chain.Coin,
) (ModuleInstantiateInfo, error) {
	withFunds := feature.Supports(feature.ModuleInstantiateFunds, coreVersion)
	if len(funds) > 0 && !withFunds {
		return ModuleInstantiateInfo{}, fmt.Errorf("%w: %s with core version %s",
			ErrUnsupportedFeature, feature.ModuleInstantiateFunds, coreVersion)
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return ModuleInstantiateInfo{}, fmt.Errorf("failed to encode instantiate msg for %s: %w", label, err)
	}
	if funds == nil {
		funds = []chain.Coin{}
	}

	return ModuleInstantiateInfo{
		Admin:     admin,
		CodeID:    codeID,
		Label:     label,
		Msg:       raw,
		Funds:     funds,
		withFunds: withFunds,
	}, nil
}

// MarshalJSON encodes the info in the core's shape. Msg is base64 encoded.
func (i ModuleInstantiateInfo) MarshalJSON() ([]byte, error) {
	out := moduleInstantiateInfoJSON{
		Admin:    i.Admin,
		CodeID:   i.CodeID,
		CodeHash: i.CodeHash,
		Label:    i.Label,
		Msg:      i.Msg,
	}
	if !i.withFunds {
		return json.Marshal(out)
	}

	// funds is required once supported, even when empty.
	type withRequiredFunds struct {
		moduleInstantiateInfoJSON
		Funds []chain.Coin `json:"funds"`
	}

	return json.Marshal(withRequiredFunds{moduleInstantiateInfoJSON: out, Funds: i.Funds})
}
