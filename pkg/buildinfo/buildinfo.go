// Package buildinfo carries version metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/jhonatancruzmail/SkyConnectExplorer/pkg/buildinfo.Version=v1.0.0 \
//	  -X github.com/jhonatancruzmail/SkyConnectExplorer/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)" ./cmd/...
package buildinfo

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// UserAgent identifies outbound requests made by the given component.
func UserAgent(component string) string {
	return "SkyConnectExplorer-" + component + "/" + Version + " (" + Commit + ")"
}
