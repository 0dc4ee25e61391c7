// This file contains the logic for turning HCL coordinate expressions
// (`[lat, lon]` and lists of them) into config coordinates.

package hcl_adapter

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/meshplan/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// isSequence reports whether v is a tuple or list value.
func isSequence(v cty.Value) bool {
	ty := v.Type()
	return ty.IsTupleType() || ty.IsListType()
}

// coordinateValue converts a two-element numeric sequence.
func coordinateValue(v cty.Value) (config.Coordinate, error) {
	var c config.Coordinate
	if v.IsNull() || !v.IsKnown() || !isSequence(v) {
		return c, fmt.Errorf("expected [latitude, longitude], got %s", v.Type().FriendlyName())
	}
	if n := v.LengthInt(); n != 2 {
		return c, fmt.Errorf("expected [latitude, longitude], got %d elements", n)
	}
	for i, el := range v.AsValueSlice() {
		if err := gocty.FromCtyValue(el, &c[i]); err != nil {
			return c, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return c, nil
}

// decodeCoordinate evaluates a single coordinate attribute.
func decodeCoordinate(expr hcl.Expression) (config.Coordinate, error) {
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return config.Coordinate{}, diags
	}
	c, err := coordinateValue(v)
	if err != nil {
		return c, fmt.Errorf("%s: %w", expr.Range(), err)
	}
	return c, nil
}

// decodeOptionalCoordinate returns nil for an absent attribute.
func decodeOptionalCoordinate(expr hcl.Expression) (*config.Coordinate, error) {
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if v.IsNull() {
		return nil, nil
	}
	c, err := coordinateValue(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", expr.Range(), err)
	}
	return &c, nil
}

// decodeCoordinates evaluates a list of coordinates.
func decodeCoordinates(expr hcl.Expression) ([]config.Coordinate, error) {
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if v.IsNull() || !v.IsKnown() || !isSequence(v) {
		return nil, fmt.Errorf("%s: expected a list of [latitude, longitude] pairs", expr.Range())
	}
	coords := make([]config.Coordinate, 0, v.LengthInt())
	for i, el := range v.AsValueSlice() {
		c, err := coordinateValue(el)
		if err != nil {
			return nil, fmt.Errorf("%s: point %d: %w", expr.Range(), i, err)
		}
		coords = append(coords, c)
	}
	return coords, nil
}
