package layers

import (
	"fmt"

	"map-extractor/internal/converter/models"
	"map-extractor/internal/converter/parser"

	"github.com/PuerkitoBio/goquery"
)

// Layer group names of a board document.
const (
	Background      = "background"
	Foreground      = "foreground"
	SupplyCenters   = "supply-centers"
	ProvinceCenters = "province-centers"
	Names           = "names"
	Provinces       = "provinces"
)

// ============================================================
// Validators
// ============================================================

// Validator checks that a named layer group exists. An empty group is valid.
type Validator struct {
	Layer string
}

var (
	HasBackgroundLayer      = Validator{Layer: Background}
	HasForegroundLayer      = Validator{Layer: Foreground}
	HasSupplyCentersLayer   = Validator{Layer: SupplyCenters}
	HasProvinceCentersLayer = Validator{Layer: ProvinceCenters}
	HasNamesLayer           = Validator{Layer: Names}
	HasProvincesLayer       = Validator{Layer: Provinces}
)

func (v Validator) Validate(root *goquery.Selection) error {
	if parser.Layer(root, v.Layer).Length() == 0 {
		return fmt.Errorf("%w: %q", models.ErrLayerNotFound, v.Layer)
	}
	return nil
}

// Required returns the validators every board must pass.
func Required() []Validator {
	return []Validator{
		HasBackgroundLayer,
		HasForegroundLayer,
		HasSupplyCentersLayer,
		HasProvinceCentersLayer,
		HasNamesLayer,
		HasProvincesLayer,
	}
}

// ValidateAll runs Required in order and returns the first failure.
func ValidateAll(root *goquery.Selection) error {
	for _, v := range Required() {
		if err := v.Validate(root); err != nil {
			return err
		}
	}
	return nil
}
