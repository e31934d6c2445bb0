//go:build !cgo

package ocr

const backendName = "unavailable (built without cgo)"

func openBackend(Options) (backend, error) {
	return nil, ErrUnavailable
}

func backendVersion() string {
	return ""
}
