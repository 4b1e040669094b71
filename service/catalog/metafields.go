package catalog

import (
	"encoding/json"

	"catalogsync.GO/remote/shopify"
)

// FlattenMetafields maps remote metafields into the product metadata
// map as "namespace.key" entries. Values that parse as JSON are stored
// structured; everything else stays a raw string.
func FlattenMetafields(metafields []shopify.Metafield) map[string]interface{} {
	metadata := make(map[string]interface{}, len(metafields))
	for _, mf := range metafields {
		key := mf.Namespace + "." + mf.Key
		var parsed interface{}
		if err := json.Unmarshal([]byte(mf.Value), &parsed); err == nil {
			metadata[key] = parsed
		} else {
			metadata[key] = mf.Value
		}
	}
	return metadata
}
