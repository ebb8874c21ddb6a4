package bound

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Kind names accepted by [FromConfig].
const (
	KindNone      = "none"
	KindLability  = "lability"
	KindWeightSum = "weight_sum"
)

// Kinds lists the accepted kind names.
var Kinds = []string{KindNone, KindLability, KindWeightSum}

// Config is the serialisable description of an aggregate as it appears in
// config files and API requests.
type Config struct {
	Kind   string         `json:"kind" toml:"kind"`
	Params map[string]any `json:"params,omitempty" toml:"params"`
}

// Key returns a canonical string for c, stable across map orderings.
func (c Config) Key() string {
	kind := c.Kind
	if kind == "" {
		kind = KindNone
	}
	if len(c.Params) == 0 {
		return kind
	}
	data, err := json.Marshal(c.Params)
	if err != nil {
		return kind
	}
	return kind + ":" + string(data)
}

// Build is shorthand for FromConfig(c.Kind, c.Params).
func (c Config) Build() (Aggregate, error) {
	return FromConfig(c.Kind, c.Params)
}

// FromConfig builds an aggregate from its kind and a loosely typed parameter
// map. Numeric strings are accepted wherever integers are expected, so the
// same map can come from TOML, JSON or command-line flags.
func FromConfig(kind string, params map[string]any) (Aggregate, error) {
	switch kind {
	case "", KindNone:
		return None{}, nil
	case KindLability:
		var l Lability
		if err := decode(params, &l); err != nil {
			return nil, fmt.Errorf("lability params: %w", err)
		}
		if l.MaxPer < 0 || l.MaxLa < 0 {
			return nil, fmt.Errorf("lability params: max_per and max_la must not be negative")
		}
		return l, nil
	case KindWeightSum:
		var w WeightSum
		if err := decode(params, &w); err != nil {
			return nil, fmt.Errorf("weight_sum params: %w", err)
		}
		if w.Default < 0 {
			return nil, fmt.Errorf("weight_sum params: default must not be negative")
		}
		for tid, v := range w.Weights {
			if v < 0 {
				return nil, fmt.Errorf("weight_sum params: weight of transaction %d is negative", tid)
			}
		}
		return w, nil
	default:
		return nil, fmt.Errorf("unknown bound kind %q (must be one of: %v)", kind, Kinds)
	}
}

func decode(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(params)
}
