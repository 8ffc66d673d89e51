package module

// PercentageThreshold is a share of voting power: a simple majority or a decimal percent.
type PercentageThreshold struct {
	Majority *struct{} `json:"majority,omitempty"`
	// Percent is a decimal string, e.g. "0.5".
	Percent *string `json:"percent,omitempty"`
}

// Majority returns a simple majority threshold.
func Majority() PercentageThreshold {
	return PercentageThreshold{Majority: &struct{}{}}
}

// Percent returns a decimal percentage threshold.
func Percent(decimal string) PercentageThreshold {
	return PercentageThreshold{Percent: &decimal}
}

// PreProposeInfo tells a v2 proposal module whether to instantiate a pre-propose module.
type PreProposeInfo struct {
	AnyoneMayPropose *struct{}             `json:"anyone_may_propose,omitempty"`
	ModuleMayPropose *ModuleMayProposeInfo `json:"module_may_propose,omitempty"`
}

type ModuleMayProposeInfo struct {
	Info ModuleInstantiateInfo `json:"info"`
}

// NewPreProposeInfo returns anyone_may_propose when info is nil, module_may_propose otherwise.
func NewPreProposeInfo(info *ModuleInstantiateInfo) PreProposeInfo {
	if info == nil {
		return PreProposeInfo{AnyoneMayPropose: &struct{}{}}
	}

	return PreProposeInfo{ModuleMayPropose: &ModuleMayProposeInfo{Info: *info}}
}
