package board

type imageKind int

const (
	imageLocal imageKind = iota + 1
	imageRemote
)

// ImageRef points at a character portrait. A local reference is a handle to
// bytes held by the server that have not been persisted yet; a remote
// reference is a durable URL.
type ImageRef struct {
	kind   imageKind
	handle string
	url    string
}

func LocalImage(handle string) ImageRef {
	return ImageRef{kind: imageLocal, handle: handle}
}

func RemoteImage(url string) ImageRef {
	return ImageRef{kind: imageRemote, url: url}
}

func (r ImageRef) IsLocal() bool {
	return r.kind == imageLocal
}

func (r ImageRef) IsRemote() bool {
	return r.kind == imageRemote
}

func (r ImageRef) Handle() string {
	return r.handle
}

func (r ImageRef) URL() string {
	return r.url
}

type Character struct {
	ID         string
	Name       string
	Image      ImageRef
	Eliminated bool
}
