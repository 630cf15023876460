package sink

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/dayview/pkg/errors"
	"github.com/matzehuels/dayview/pkg/render/axis"
	"github.com/matzehuels/dayview/pkg/render/day"
)

type jsonOutput struct {
	Title        string      `json:"title,omitempty"`
	EndOfDay     float64     `json:"end_of_day"`
	Height       float64     `json:"height"`
	Width        float64     `json:"width"`
	TickInterval int         `json:"tick_interval"`
	Events       []day.Box   `json:"events"`
	Axis         []axis.Tick `json:"axis"`
}

// JSON exports interpolated boxes and ticks for other front ends.
type JSON struct {
	cfg config
}

// NewJSON returns a JSON sink.
func NewJSON(opts ...Option) *JSON { return &JSON{cfg: newConfig(opts...)} }

// Render implements [Renderer].
func (j *JSON) Render(_ context.Context, v View) ([]byte, error) {
	v, err := prepare(v)
	if err != nil {
		return nil, err
	}

	out := jsonOutput{
		Title:        j.cfg.heading(v),
		EndOfDay:     v.Options.EndOfDay,
		Height:       v.Options.Height,
		Width:        v.Options.Width,
		TickInterval: v.Options.TickInterval,
		Events:       v.Boxes(),
		Axis:         v.Ticks(),
	}

	var data []byte
	if j.cfg.indent {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode view")
	}
	return data, nil
}
