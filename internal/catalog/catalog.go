package catalog

import (
	"embed"
	"io/fs"
)

// ManifestFile is the catalog entry point inside FS.
const ManifestFile = "catalog.yaml"

// catalogFiles embeds the shipped design vocabulary and registries.
// The structure is:
//   - catalog.yaml (manifest: vocabulary file, providers, extensions)
//   - vocabulary.yaml
//   - registries/<name>.yaml
//
//go:embed catalog.yaml vocabulary.yaml registries/*.yaml
var catalogFiles embed.FS

// FS returns the embedded catalog. An on-disk directory with the same layout
// can be used in its place via os.DirFS.
func FS() fs.FS {
	return catalogFiles
}
