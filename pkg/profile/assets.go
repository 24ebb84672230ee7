package profile

import (
	"encoding/json"

	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
)

// Legacy asset index ids whose objects are stored under their names in the
// virtual asset root.
const (
	AssetIDLegacy = "legacy"
	AssetIDPre16  = "pre-1.6"
)

// AssetObject is one content-addressed file of an asset index.
type AssetObject struct {
	Hash string `json:"hash"`
	Size uint64 `json:"size"`
}

// AssetIndex lists the media files of a game version.
type AssetIndex struct {
	Objects map[string]AssetObject `json:"objects"`
	// MapToResources places objects under their names in the resources
	// directory, as very old versions expect.
	MapToResources bool `json:"map_to_resources"`
	Virtual        bool `json:"virtual"`
}

// ParseAssetIndex decodes an asset index document.
func ParseAssetIndex(data []byte) (*AssetIndex, error) {
	var idx AssetIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, errors.Wrap(errors.ErrProfileParse, "asset index: "+err.Error())
	}
	return &idx, nil
}

// IsLegacyAssetID reports whether id names a legacy asset index.
func IsLegacyAssetID(id string) bool {
	return id == AssetIDLegacy || id == AssetIDPre16
}
