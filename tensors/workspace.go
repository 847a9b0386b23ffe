package tensors

import (
	"maps"
	"slices"

	"github.com/pkg/errors"
)

// Workspace holds the tensors ("blobs") of a net, indexed by their identifiers.
//
// It is not safe for concurrent use.
type Workspace struct {
	blobs map[string]*Tensor
}

// NewWorkspace creates an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{blobs: make(map[string]*Tensor)}
}

// CreateBlob returns the blob with the given name, creating an uninitialized one if it doesn't exist yet.
func (ws *Workspace) CreateBlob(name string) *Tensor {
	if t, found := ws.blobs[name]; found {
		return t
	}
	t := &Tensor{}
	ws.blobs[name] = t
	return t
}

// Blob returns the blob with the given name, or an error if it doesn't exist.
func (ws *Workspace) Blob(name string) (*Tensor, error) {
	t, found := ws.blobs[name]
	if !found {
		return nil, errors.Errorf("blob %q not found in workspace", name)
	}
	return t, nil
}

// HasBlob returns whether a blob with the given name exists.
func (ws *Workspace) HasBlob(name string) bool {
	_, found := ws.blobs[name]
	return found
}

// FeedBlob stores t under name, replacing any previous blob.
func (ws *Workspace) FeedBlob(name string, t *Tensor) {
	ws.blobs[name] = t
}

// Blobs returns the names of the blobs in the workspace, sorted.
func (ws *Workspace) Blobs() []string {
	return slices.Sorted(maps.Keys(ws.blobs))
}
