package puzzle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"

	"github.com/aretw0/vialsort/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Key names of the required description fields.
const (
	KeyVialSize = "vial_size"
	KeyVials    = "vials"
)

// Description is the decoded form of a puzzle description.
// It uses "mapstructure" tags so raw JSON or YAML maps decode into it,
// with unknown keys collected in Extra.
type Description struct {
	VialSize int     `json:"vial_size" mapstructure:"vial_size" validate:"gt=0,lte=1024"`
	Vials    [][]int `json:"vials" mapstructure:"vials" validate:"required,dive,required,dive,gte=0"`

	// Extra holds unrecognized top-level keys, preserved on re-encode.
	Extra map[string]any `json:"-" mapstructure:",remain"`
}

var validate = validator.New()

// Parse decodes and validates a single JSON description.
// Numbers are decoded exactly so that 1.5 or 1e40 is rejected rather than rounded.
func Parse(data []byte) (*Description, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON (%v)", domain.ErrMalformedPuzzle, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after description", domain.ErrMalformedPuzzle)
	}
	return Decode(raw)
}

// Decode converts a raw key/value map into a validated Description.
func Decode(raw map[string]any) (*Description, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: description must be an object", domain.ErrMalformedPuzzle)
	}
	for _, key := range []string{KeyVialSize, KeyVials} {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("%w: key %q is required", domain.ErrMalformedPuzzle, key)
		}
	}

	var desc Description
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncType(wholeNumberHook),
		Result:     &desc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPuzzle, err)
	}

	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return &desc, nil
}

// Validate checks the structural rules of a description. The vial size must
// lie in 1..domain.MaxCapacity and no vial may be longer than it.
func (d *Description) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedPuzzle, err)
	}
	for i, v := range d.Vials {
		if len(v) > d.VialSize {
			return fmt.Errorf("%w: vial %d contains too many units (%d > %d)", domain.ErrMalformedPuzzle, i, len(v), d.VialSize)
		}
	}
	return nil
}

// Puzzle builds the engine snapshot described by d.
func (d *Description) Puzzle() (*domain.Puzzle, error) {
	vials := make([][]domain.Color, len(d.Vials))
	for i, v := range d.Vials {
		vials[i] = make([]domain.Color, len(v))
		for j, c := range v {
			vials[i][j] = domain.Color(c)
		}
	}
	return domain.NewPuzzle(d.VialSize, vials)
}

// FromPuzzle describes a snapshot. Extra is left empty.
func FromPuzzle(p *domain.Puzzle) *Description {
	vials := p.Vials()
	d := &Description{
		VialSize: p.Capacity(),
		Vials:    make([][]int, len(vials)),
	}
	for i, v := range vials {
		d.Vials[i] = make([]int, len(v))
		for j, c := range v {
			d.Vials[i][j] = int(c)
		}
	}
	return d
}

// MarshalJSON writes the required keys plus every preserved extra key.
func (d Description) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.fields())
}

// fields flattens d back into a description object.
// Required keys always win over an extra key of the same name.
func (d Description) fields() map[string]any {
	out := make(map[string]any, len(d.Extra)+2)
	for k, v := range d.Extra {
		out[k] = v
	}
	vials := d.Vials
	if vials == nil {
		vials = [][]int{}
	}
	out[KeyVialSize] = d.VialSize
	out[KeyVials] = vials
	return out
}

// wholeNumberHook rejects fractional or out-of-range numbers headed for an int
// field. mapstructure would otherwise truncate them silently.
func wholeNumberHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Int {
		return data, nil
	}
	switch n := data.(type) {
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
			return nil, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("%s is not an integer", n)
		}
		return int(i), nil
	}
	return data, nil
}
