package schema

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

type yamlDocument struct {
	Schemas []yamlSchema `yaml:"schemas"`
}

type yamlSchema struct {
	Name   string      `yaml:"name"`
	Fields []yamlField `yaml:"fields"`
}

type yamlField struct {
	Name       string          `yaml:"name"`
	Type       string          `yaml:"type"`
	Of         string          `yaml:"of"`
	Nullable   bool            `yaml:"nullable"`
	Default    any             `yaml:"default"`
	Validators []yamlValidator `yaml:"validators"`
}

type yamlValidator struct {
	Kind               string   `yaml:"kind"`
	Pattern            string   `yaml:"pattern"`
	Min                *int     `yaml:"min"`
	Max                *int     `yaml:"max"`
	Is                 *int     `yaml:"is"`
	In                 []any    `yaml:"in"`
	NotIn              []any    `yaml:"not_in"`
	GreaterThan        *float64 `yaml:"greater_than"`
	GreaterThanOrEqual *float64 `yaml:"greater_than_or_equal_to"`
	LessThan           *float64 `yaml:"less_than"`
	LessThanOrEqual    *float64 `yaml:"less_than_or_equal_to"`
	EqualTo            *float64 `yaml:"equal_to"`
}

// LoadYAML registers every declared type found in a YAML document. The
// expected shape is a top-level "schemas" list; each entry carries a name and
// ordered fields with type, nullability, default, and validator metadata.
// Custom validators cannot be expressed in YAML and must be registered in
// code.
//
//	schemas:
//	  - name: user
//	    fields:
//	      - name: email
//	        type: string
//	        validators:
//	          - kind: format
//	            pattern: "^[^@]+@[^@]+$"
//	      - name: age
//	        type: int
//	        nullable: true
//	        validators:
//	          - kind: number
//	            greater_than_or_equal_to: 0
func (r *Registry) LoadYAML(data []byte) error {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Join(ErrInvalidYAML, err)
	}
	if len(doc.Schemas) == 0 {
		return fmt.Errorf("%w: no schemas declared", ErrInvalidYAML)
	}

	for _, ys := range doc.Schemas {
		fields := make([]Field, 0, len(ys.Fields))
		for _, yf := range ys.Fields {
			f, err := yf.toField(ys.Name)
			if err != nil {
				return err
			}
			fields = append(fields, f)
		}

		s, err := New(ys.Name, fields...)
		if err != nil {
			return err
		}
		if err := r.Register(s); err != nil {
			return err
		}
	}

	return nil
}

func (yf yamlField) toField(schemaName string) (Field, error) {
	var td TypeDescriptor
	switch yf.Type {
	case "string":
		td = String()
	case "int":
		td = Int()
	case "float":
		td = Float()
	case "bool":
		td = Bool()
	case "any", "":
		td = Any()
	case "struct":
		if yf.Of == "" {
			return Field{}, fmt.Errorf("%w: struct field %q in %q needs an 'of' type name", ErrInvalidYAML, yf.Name, schemaName)
		}
		td = Struct(yf.Of)
	default:
		return Field{}, fmt.Errorf("%w: %q on field %q in %q", ErrUnknownType, yf.Type, yf.Name, schemaName)
	}

	validators := make([]Validator, 0, len(yf.Validators))
	for _, yv := range yf.Validators {
		v, err := yv.toValidator(schemaName, yf.Name)
		if err != nil {
			return Field{}, err
		}
		validators = append(validators, v)
	}

	return Field{
		Name:       yf.Name,
		Type:       td,
		Nullable:   yf.Nullable,
		Validators: validators,
		Default:    yf.Default,
	}, nil
}

func (yv yamlValidator) toValidator(schemaName, fieldName string) (Validator, error) {
	switch ValidatorKind(yv.Kind) {
	case ValidatorFormat:
		return Format(yv.Pattern), nil
	case ValidatorLength:
		return Validator{Kind: ValidatorLength, Min: yv.Min, Max: yv.Max, Exact: yv.Is}, nil
	case ValidatorInclusion:
		return Validator{Kind: ValidatorInclusion, Allowed: yv.In}, nil
	case ValidatorExclusion:
		return Validator{Kind: ValidatorExclusion, Forbidden: yv.NotIn}, nil
	case ValidatorNumber:
		return Validator{
			Kind:               ValidatorNumber,
			GreaterThan:        yv.GreaterThan,
			GreaterThanOrEqual: yv.GreaterThanOrEqual,
			LessThan:           yv.LessThan,
			LessThanOrEqual:    yv.LessThanOrEqual,
			EqualTo:            yv.EqualTo,
		}, nil
	case ValidatorCustom:
		return Validator{}, fmt.Errorf("%w: custom validators must be registered in code (field %q in %q)", ErrInvalidYAML, fieldName, schemaName)
	default:
		return Validator{}, fmt.Errorf("%w: %q on field %q in %q", ErrUnknownRule, yv.Kind, fieldName, schemaName)
	}
}
