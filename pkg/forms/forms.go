package forms

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Form names present in the default rules.
const (
	Login          = "login"
	ChangePassword = "changePassword"
	CreateForum    = "createForum"
	CreatePost     = "createPost"
	CreateComment  = "createComment"
)

//go:embed rules.yaml
var defaultRules []byte

// Field is the rule set for one input. Message, when set, replaces the
// message of every failed check; EqualsMessage replaces only a mismatch
// with the Equals field.
type Field struct {
	Name          string `yaml:"name"`
	Label         string `yaml:"label"`
	Rules         string `yaml:"rules"`
	Equals        string `yaml:"equals"`
	EqualsMessage string `yaml:"equalsMessage"`
	Message       string `yaml:"message"`
	Trim          bool   `yaml:"trim"`
}

type document struct {
	Forms map[string][]Field `yaml:"forms"`
}

// Rules validates forms.
type Rules struct {
	forms    map[string][]Field
	validate *validator.Validate
}

// Default returns the embedded rules.
func Default() *Rules {
	r, err := parse(defaultRules)
	if err != nil {
		panic(err)
	}
	return r
}

// Load reads rules from r.
func Load(r io.Reader) (*Rules, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrInvalidRules, err)
	}
	return parse(data)
}

// LoadFile reads rules from a YAML file.
func LoadFile(path string) (*Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidRules, err)
	}
	defer f.Close()
	return Load(f)
}

func parse(data []byte) (*Rules, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrInvalidRules, err)
	}
	if len(doc.Forms) == 0 {
		return nil, fmt.Errorf("%w: no forms defined", ErrInvalidRules)
	}

	for form, fields := range doc.Forms {
		names := make(map[string]bool, len(fields))
		for _, f := range fields {
			if f.Name == "" {
				return nil, fmt.Errorf("%w: %s has a field without a name", ErrInvalidRules, form)
			}
			names[f.Name] = true
		}
		for _, f := range fields {
			if f.Equals != "" && !names[f.Equals] {
				return nil, fmt.Errorf("%w: %s.%s equals unknown field %q", ErrInvalidRules, form, f.Name, f.Equals)
			}
		}
	}

	return &Rules{forms: doc.Forms, validate: validator.New()}, nil
}

// Fields returns the field rules of a form.
func (r *Rules) Fields(form string) ([]Field, bool) {
	fields, ok := r.forms[form]
	return fields, ok
}

// Validate checks values against form. It returns the cleaned values and, on
// failure, an Errors value. Fields not declared by the form are dropped.
func (r *Rules) Validate(form string, values map[string]string) (map[string]string, error) {
	fields, ok := r.forms[form]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownForm, form)
	}

	clean := make(map[string]string, len(fields))
	for _, f := range fields {
		v := values[f.Name]
		if f.Trim {
			v = strings.TrimSpace(v)
		}
		clean[f.Name] = v
	}

	var errs Errors
	for _, f := range fields {
		if fe, failed := r.check(f, fields, clean); failed {
			errs = append(errs, fe)
		}
	}
	if len(errs) > 0 {
		return clean, errs
	}
	return clean, nil
}

func (r *Rules) check(f Field, fields []Field, clean map[string]string) (FieldError, bool) {
	if f.Rules != "" {
		if err := r.validate.Var(clean[f.Name], f.Rules); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				return newFieldError(f, verrs[0].Tag(), verrs[0].Param()), true
			}
			return newFieldError(f, "invalid", ""), true
		}
	}

	if f.Equals != "" && clean[f.Name] != clean[f.Equals] {
		fe := newFieldError(f, "equals", labelOf(fields, f.Equals))
		return fe, true
	}
	return FieldError{}, false
}

func newFieldError(f Field, tag, param string) FieldError {
	label := f.Label
	if label == "" {
		label = f.Name
	}

	msg := f.Message
	if tag == "equals" && f.EqualsMessage != "" {
		msg = f.EqualsMessage
	}
	if msg == "" {
		switch tag {
		case "required":
			msg = label + " is required"
		case "min":
			msg = fmt.Sprintf("%s must be at least %s characters", label, param)
		case "max":
			msg = fmt.Sprintf("%s must be at most %s characters", label, param)
		case "oneof":
			msg = fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(param), ", "))
		case "equals":
			msg = fmt.Sprintf("%s must match %s", label, param)
		default:
			msg = label + " is invalid"
		}
	}

	return FieldError{Field: f.Name, Label: label, Tag: tag, Param: param, Message: msg}
}

func labelOf(fields []Field, name string) string {
	for _, f := range fields {
		if f.Name == name && f.Label != "" {
			return f.Label
		}
	}
	return name
}

// ParseTags splits a comma-separated tag list, trimming entries and dropping
// empty ones.
func ParseTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
