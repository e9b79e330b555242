package domain

import "slices"

// AssetType identifies one of the five tracked asset kinds.
type AssetType string

const (
	AssetTypePC       AssetType = "pc"
	AssetTypeServer   AssetType = "server"
	AssetTypeNetwork  AssetType = "network"
	AssetTypePrinter  AssetType = "printer"
	AssetTypeSoftware AssetType = "software"
)

// ValidAssetTypes is the canonical set of known asset types.
var ValidAssetTypes = []AssetType{ //nolint:gochecknoglobals // canonical enum list
	AssetTypePC,
	AssetTypeServer,
	AssetTypeNetwork,
	AssetTypePrinter,
	AssetTypeSoftware,
}

// Valid returns true if t is a known asset type.
func (t AssetType) Valid() bool {
	return slices.Contains(ValidAssetTypes, t)
}

// Action is the category of mutation that triggered an audit write.
// Dispose is a soft-delete terminal transition, distinct from delete.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionDispose Action = "dispose"
)

// ValidActions is the canonical set of known audit actions.
var ValidActions = []Action{ //nolint:gochecknoglobals // canonical enum list
	ActionCreate,
	ActionUpdate,
	ActionDelete,
	ActionDispose,
}

// Valid returns true if a is a known audit action.
func (a Action) Valid() bool {
	return slices.Contains(ValidActions, a)
}
