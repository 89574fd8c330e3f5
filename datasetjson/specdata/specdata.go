// Package specdata embeds the published Dataset-JSON specification files so
// the binary can validate output without any files installed next to it.
package specdata

import (
	"embed"
	"fmt"
)

//go:embed dataset.schema.json
var bucket embed.FS

// Asset returns the content of the named specification file.
func Asset(name string) ([]byte, error) {
	return bucket.ReadFile(name)
}

// MustAsset is like Asset but panics on unknown names. Only for assets
// whose presence is guaranteed at build time.
func MustAsset(name string) []byte {
	blob, err := Asset(name)
	if err != nil {
		panic(fmt.Sprintf("specdata: %v", err))
	}
	return blob
}

// AssetNames lists the embedded specification files.
func AssetNames() []string {
	entries, err := bucket.ReadDir(".")
	if err != nil {
		panic(fmt.Sprintf("specdata: %v", err))
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
