package dataset

import (
	"encoding/json"
	"fmt"
)

// PlatformObjectStore tags datasets backed by object storage.
const PlatformObjectStore = "object-store"

// Identifier is the normalized, platform-tagged key of a dataset.
// It is a comparable value and can be used as a map key.
type Identifier struct {
	platform         string
	platformInstance string
	name             string
	environment      EnvironmentTag
}

// Platform returns the storage system tag.
func (id Identifier) Platform() string { return id.platform }

// PlatformInstance returns the caller-supplied instance label.
func (id Identifier) PlatformInstance() string { return id.platformInstance }

// Name returns the normalized dataset path, e.g. "my-bucket/warehouse/table1".
func (id Identifier) Name() string { return id.name }

// Environment returns the caller-supplied environment tag.
func (id Identifier) Environment() EnvironmentTag { return id.environment }

// URN returns the dataset handle consumed by the lineage catalog, e.g.
// urn:li:dataset:(urn:li:dataPlatform:object-store,prod.my-bucket/table,PROD).
func (id Identifier) URN() string {
	name := id.name
	if id.platformInstance != "" {
		name = id.platformInstance + "." + name
	}
	return fmt.Sprintf("urn:li:dataset:(urn:li:dataPlatform:%s,%s,%s)", id.platform, name, id.environment)
}

// String returns the identifier as its URN.
func (id Identifier) String() string {
	return id.URN()
}

type identifierJSON struct {
	Platform         string         `json:"platform"`
	PlatformInstance string         `json:"platform_instance"`
	Name             string         `json:"name"`
	Environment      EnvironmentTag `json:"environment"`
	URN              string         `json:"urn"`
}

// MarshalJSON encodes the identifier fields together with its URN.
func (id Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(identifierJSON{
		Platform:         id.platform,
		PlatformInstance: id.platformInstance,
		Name:             id.name,
		Environment:      id.environment,
		URN:              id.URN(),
	})
}
