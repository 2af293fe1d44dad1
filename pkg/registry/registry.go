// Package registry maps leaf names to content producers. A registry is
// an explicit instance handed into render and session contexts rather
// than process-wide state, so tests and sessions stay isolated.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/matzehuels/panegrid/pkg/errors"
	"github.com/matzehuels/panegrid/pkg/figure"
)

// Kind classifies how a producer delivers its content. The kind is
// declared by the registering caller, never inferred.
type Kind int

const (
	// KindContent takes no canvas and returns serialized SVG content;
	// a marker is drawn in its cell and the content spliced in after
	// serialization.
	KindContent Kind = iota
	// KindArtifact draws directly onto the cell's canvas.
	KindArtifact
	// KindArtifactContent draws onto the canvas and additionally
	// returns serialized content for splicing.
	KindArtifactContent
)

func (k Kind) String() string {
	switch k {
	case KindContent:
		return "content"
	case KindArtifact:
		return "artifact"
	case KindArtifactContent:
		return "artifact+content"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Producer is a tagged content producer. Construct one with [Content],
// [Artifact] or [ArtifactContent].
type Producer struct {
	kind     Kind
	content  func() string
	artifact func(figure.Canvas)
	both     func(figure.Canvas) string
}

// Content wraps a no-argument function returning serialized SVG.
func Content(fn func() string) Producer {
	return Producer{kind: KindContent, content: fn}
}

// Artifact wraps a function drawing directly onto a canvas.
func Artifact(fn func(figure.Canvas)) Producer {
	return Producer{kind: KindArtifact, artifact: fn}
}

// ArtifactContent wraps a function that draws onto a canvas and returns
// serialized SVG to splice in as well.
func ArtifactContent(fn func(figure.Canvas) string) Producer {
	return Producer{kind: KindArtifactContent, both: fn}
}

// Kind returns the producer's declared classification.
func (p Producer) Kind() Kind { return p.kind }

// Draw runs the producer against the canvas and returns any serialized
// content to be spliced in. KindContent producers ignore the canvas;
// KindArtifact producers return no content.
func (p Producer) Draw(canvas figure.Canvas) string {
	switch p.kind {
	case KindContent:
		return p.content()
	case KindArtifact:
		p.artifact(canvas)
		return ""
	case KindArtifactContent:
		return p.both(canvas)
	}
	return ""
}

// Registry holds named producers. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	producers map[string]Producer
}

// New returns a registry with the default empty-cell producer
// pre-registered under "draw_empty".
func New() *Registry {
	r := &Registry{producers: make(map[string]Producer)}
	r.producers["draw_empty"] = Artifact(func(figure.Canvas) {})
	return r
}

// Register stores the producer and returns the name it was assigned.
// A taken name is disambiguated by appending _1, _2, and so on.
func (r *Registry) Register(name string, p Producer) (string, error) {
	if err := errors.ValidateLeafName(name); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	assigned := name
	for i := 1; ; i++ {
		if _, taken := r.producers[assigned]; !taken {
			break
		}
		assigned = fmt.Sprintf("%s_%d", name, i)
	}
	r.producers[assigned] = p
	return assigned, nil
}

// Lookup returns the producer registered under name.
func (r *Registry) Lookup(name string) (Producer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.producers[name]
	if !ok {
		return Producer{}, errors.New(errors.ErrCodeProducerNotFound, "no content producer registered as %q", name)
	}
	return p, nil
}

// Names returns all registered producer names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.producers))
	for name := range r.producers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
