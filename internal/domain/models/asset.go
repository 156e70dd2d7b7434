package models

// AssetRef points at an object held by the asset delegate.
type AssetRef struct {
	URL          string `bson:"url" json:"url"`
	ExternalID   string `bson:"external_id" json:"externalId"`
	ResourceType string `bson:"resource_type,omitempty" json:"-"` // image | video | raw
}

// IsZero reports whether the reference is unset.
func (a *AssetRef) IsZero() bool {
	return a == nil || a.ExternalID == ""
}
