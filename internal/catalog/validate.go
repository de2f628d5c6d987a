package catalog

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Simplici0/carte/internal/pricing"
)

// ErrValidation marks input rejected at the save boundary.
var ErrValidation = errors.New("validation failed")

// ValidationError lists rejected fields with an operator-facing message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ManualPriceForm is an edited tax-inclusive price for one sub-unit.
type ManualPriceForm struct {
	SubUnit   string `json:"sub_unit" validate:"required"`
	Inclusive string `json:"inclusive" validate:"required,amount"`
}

// IngredientForm is the raw add-ingredient input, numbers still as text.
type IngredientForm struct {
	Name          string            `json:"name" validate:"required"`
	Category      string            `json:"category" validate:"required,category"`
	Format        string            `json:"format" validate:"omitempty,format"`
	PurchasePrice string            `json:"purchase_price" validate:"required,amount"`
	Multiplier    string            `json:"multiplier" validate:"omitempty,amount"`
	TaxRate       string            `json:"tax_rate" validate:"required,taxrate"`
	Manual        *ManualPriceForm  `json:"manual,omitempty"`
	HappyHour     map[string]string `json:"happy_hour,omitempty" validate:"omitempty,dive,amount"`
}

// IngredientPatchForm is the raw edit-ingredient input. Empty fields are kept.
type IngredientPatchForm struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	PurchasePrice string           `json:"purchase_price,omitempty" validate:"omitempty,amount"`
	Multiplier    string           `json:"multiplier,omitempty" validate:"omitempty,amount"`
	TaxRate       string           `json:"tax_rate,omitempty" validate:"omitempty,taxrate"`
	Manual        *ManualPriceForm `json:"manual,omitempty"`
}

// CocktailLineForm is one recipe line referencing a saved ingredient.
type CocktailLineForm struct {
	IngredientID string `json:"ingredient_id" validate:"required"`
	Quantity     string `json:"quantity" validate:"omitempty,amount"`
	Doses        int    `json:"doses" validate:"gte=0"`
}

// CocktailForm is the raw cocktail input.
type CocktailForm struct {
	Name     string             `json:"name" validate:"required"`
	TaxRate  string             `json:"tax_rate" validate:"omitempty,taxrate"`
	Override string             `json:"override" validate:"omitempty,amount"`
	Lines    []CocktailLineForm `json:"lines" validate:"required,min=1,dive"`
}

var messages = map[string]string{
	"required": "est requis",
	"amount":   "doit être numérique",
	"taxrate":  "doit être 5.5, 10 ou 20",
	"category": "catégorie inconnue",
	"format":   "format inconnu",
	"min":      "est trop court",
	"gte":      "doit être positif ou nul",
}

// Validator checks forms before they reach a registry.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "taxrate", func(fl validator.FieldLevel) bool {
		_, err := pricing.ParseTaxRate(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "amount", func(fl validator.FieldLevel) bool {
		_, ok := ParseAmount(fl.Field().String())
		return ok
	})
	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		_, err := pricing.ParseCategory(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "format", func(fl validator.FieldLevel) bool {
		_, err := pricing.ParseFormat(fl.Field().String())
		return err == nil
	})
	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func (v *Validator) structErrors(form any) *ValidationError {
	verr := &ValidationError{}
	err := v.validate.Struct(form)
	if err == nil {
		return verr
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.add("form", err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		verr.add(field, msg)
	}
	return verr
}

// ParseAmount parses operator text, accepting a decimal comma.
func ParseAmount(raw string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func productOf(category, format string) (pricing.Product, error) {
	c, err := pricing.ParseCategory(category)
	if err != nil {
		return pricing.Product{}, err
	}
	f, err := pricing.ParseFormat(format)
	if err != nil {
		return pricing.Product{}, err
	}
	return pricing.NewProduct(c, f)
}

// Ingredient validates a form for saving and returns the derived draft.
func (v *Validator) Ingredient(form IngredientForm, defaultMultiplier float64) (pricing.Draft, error) {
	verr := v.structErrors(form)
	if err := verr.orNil(); err != nil {
		return pricing.Draft{}, err
	}

	product, err := productOf(form.Category, form.Format)
	if err != nil {
		verr.add("format", messages["format"])
		return pricing.Draft{}, verr
	}

	d := pricing.NewDraft(product, defaultMultiplier).WithName(form.Name)
	if form.Multiplier != "" {
		m, _ := ParseAmount(form.Multiplier)
		if d, err = d.WithMultiplier(m); err != nil {
			verr.add("multiplier", "doit être supérieur à 0")
		}
	}
	rate, _ := pricing.ParseTaxRate(form.TaxRate)
	d, _ = d.WithTaxRate(rate)

	price, _ := ParseAmount(form.PurchasePrice)
	if d = d.WithPurchasePrice(price); !d.Complete() {
		verr.add("purchase_price", "doit être supérieur à 0")
	}
	if err := verr.orNil(); err != nil {
		return pricing.Draft{}, err
	}

	if form.Manual != nil {
		inclusive, _ := ParseAmount(form.Manual.Inclusive)
		if d, err = d.WithManualPrice(form.Manual.SubUnit, inclusive); err != nil {
			verr.add("manual", err.Error())
		}
	}
	for label, raw := range form.HappyHour {
		price, _ := ParseAmount(raw)
		if d, err = d.WithHappyHourPrice(label, price); err != nil {
			verr.add("happy_hour."+label, err.Error())
		}
	}
	if err := verr.orNil(); err != nil {
		return pricing.Draft{}, err
	}
	return d, nil
}

// Patch validates an edit form and converts it to a pricing.Patch.
func (v *Validator) Patch(form IngredientPatchForm) (pricing.Patch, error) {
	verr := v.structErrors(form)
	if err := verr.orNil(); err != nil {
		return pricing.Patch{}, err
	}

	var p pricing.Patch
	if form.Name != nil {
		name := strings.TrimSpace(*form.Name)
		if name == "" {
			verr.add("name", messages["required"])
		}
		p.Name = &name
	}
	if form.PurchasePrice != "" {
		price, _ := ParseAmount(form.PurchasePrice)
		p.PurchasePrice = &price
	}
	if form.Multiplier != "" {
		m, _ := ParseAmount(form.Multiplier)
		p.Multiplier = &m
	}
	if form.TaxRate != "" {
		rate, _ := pricing.ParseTaxRate(form.TaxRate)
		p.TaxRate = &rate
	}
	if form.Manual != nil {
		inclusive, _ := ParseAmount(form.Manual.Inclusive)
		p.ManualPrice = &pricing.ManualPrice{SubUnit: form.Manual.SubUnit, Inclusive: inclusive}
	}
	if err := verr.orNil(); err != nil {
		return pricing.Patch{}, err
	}
	return p, nil
}

// Cocktail validates the structural shape of a cocktail form.
func (v *Validator) Cocktail(form CocktailForm) error {
	return v.structErrors(form).orNil()
}
