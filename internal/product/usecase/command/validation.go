package command

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
)

const (
	minDescriptionWords = 10
	maxDescriptionWords = 1000
)

// ProductInput is the editable part of a product
type ProductInput struct {
	Name             string  `json:"name" validate:"min=2,max=100"`
	ComponentGroup   string  `json:"componentGroup" validate:"min=2"`
	Component        string  `json:"component" validate:"min=2"`
	Condition        string  `json:"condition" validate:"min=2"`
	Material         string  `json:"material" validate:"min=2"`
	BuildingFloorRef string  `json:"buildingFloorRef" validate:"required"`
	Width            float64 `json:"width" validate:"gte=0"`
	Height           float64 `json:"height" validate:"gte=0"`
	Depth            float64 `json:"depth" validate:"gte=0"`
	Area             float64 `json:"area" validate:"gte=0"`
	Mass             float64 `json:"mass" validate:"gte=0"`
	Quantity         int     `json:"quantity" validate:"gte=1"`
	Price            int     `json:"price" validate:"gte=0"`
	CO2              float64 `json:"co2" validate:"gte=0"`
	Featured         bool    `json:"featured"`
	Description      string  `json:"description" validate:"wordcount"`
}

// normalized trims the text fields. Rules are checked against the trimmed values.
func (in ProductInput) normalized() ProductInput {
	in.Name = strings.TrimSpace(in.Name)
	in.ComponentGroup = strings.TrimSpace(in.ComponentGroup)
	in.Component = strings.TrimSpace(in.Component)
	in.Condition = strings.TrimSpace(in.Condition)
	in.Material = strings.TrimSpace(in.Material)
	in.BuildingFloorRef = strings.TrimSpace(in.BuildingFloorRef)
	return in
}

func (in ProductInput) apply(p *domain.Product) {
	p.Name = in.Name
	p.ComponentGroup = in.ComponentGroup
	p.Component = in.Component
	p.Condition = in.Condition
	p.Material = in.Material
	p.BuildingFloorRef = in.BuildingFloorRef
	p.Width = in.Width
	p.Height = in.Height
	p.Depth = in.Depth
	p.Area = in.Area
	p.Mass = in.Mass
	p.Quantity = in.Quantity
	p.Price = in.Price
	p.CO2 = in.CO2
	p.Featured = in.Featured
	p.Description = in.Description
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("wordcount", func(fl validator.FieldLevel) bool {
		n := len(strings.Fields(fl.Field().String()))
		return n >= minDescriptionWords && n <= maxDescriptionWords
	})

	return v
}

// validateStruct runs the struct rules and reports every failure as a ValidationError
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(fe))
	}
	return &domain.ValidationError{Messages: messages}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	if field == "co2" {
		field = "CO₂"
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be less than %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", field, fe.Param())
	case "gte":
		if fe.Param() == "0" {
			if fe.Kind() == reflect.Int {
				return fmt.Sprintf("%s must be a positive number.", field)
			}
			return fmt.Sprintf("%s must be positive.", field)
		}
		return fmt.Sprintf("%s must be at least %s.", field, fe.Param())
	case "wordcount":
		return fmt.Sprintf("%s must be between %d and %d words.", field, minDescriptionWords, maxDescriptionWords)
	default:
		return fmt.Sprintf("%s is invalid.", field)
	}
}
