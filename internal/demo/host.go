package demo

import (
	"go.uber.org/zap"

	"github.com/vango-dev/vango-react/internal/config"
	"github.com/vango-dev/vango-react/internal/errors"
	"github.com/vango-dev/vango-react/pkg/jshost"
	"github.com/vango-dev/vango-react/pkg/jsval"
	"github.com/vango-dev/vango-react/pkg/react"
	"github.com/vango-dev/vango-react/pkg/reacttest"
)

// Host is a foreign runtime the demo can drive.
type Host interface {
	react.Runtime

	// Render mounts el as the root of the tree.
	Render(el jsval.Value) error

	// Unmount removes the tree.
	Unmount() error

	// HTML returns the committed markup.
	HTML() (string, error)

	// Settle runs the updates queued by the last interaction.
	Settle()
}

// NewHost returns the host for a config runtime name.
func NewHost(runtime string, logger *zap.Logger) (Host, error) {
	switch runtime {
	case config.RuntimeSim:
		return &simHost{Runtime: reacttest.New()}, nil
	case config.RuntimeJS:
		rt, err := jshost.New(jshost.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return &jsHost{Runtime: rt}, nil
	}
	return nil, errors.New("R050").WithDetail("runtime " + runtime)
}

type simHost struct {
	*reacttest.Runtime
}

func (h *simHost) Render(el jsval.Value) error {
	h.Runtime.Render(el)
	return nil
}

func (h *simHost) Unmount() error {
	h.Runtime.Unmount()
	return nil
}

func (h *simHost) HTML() (string, error) {
	return h.Runtime.HTML(), nil
}

func (h *simHost) Settle() {
	h.Flush()
}

type jsHost struct {
	*jshost.Runtime
}

// Settle is a no-op: the embedded renderer processes updates
// synchronously.
func (h *jsHost) Settle() {}
