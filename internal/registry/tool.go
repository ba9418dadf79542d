package registry

// Tool names a crate whose published versions are tracked on the registry.
type Tool string

// Tools wasm-pack checks for.
const (
	WasmBindgen   Tool = "wasm-bindgen"
	CargoGenerate Tool = "cargo-generate"
	WasmPack      Tool = "wasm-pack"
)

func (t Tool) String() string { return string(t) }

// VersionInfo is the crate object of a registry response. MaxVersion is
// returned as published and is not parsed here.
type VersionInfo struct {
	MaxVersion string `json:"max_version"`
}

// crateResponse is the JSON envelope of GET /api/v1/crates/{name}.
type crateResponse struct {
	Crate VersionInfo `json:"crate"`
}
