// Package validation runs declarative field rules in front of handlers.
//
// A route declares an ordered list of Rules. Every rule is evaluated, even
// after an earlier one failed, and each failure becomes one entry of the
// errs.ValidationError returned to the client.
package validation

import (
	"encoding/json"
	"regexp"
	"strconv"

	"catalogo/internal/errs"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Location tells where a rule reads its field from.
type Location string

const (
	Params Location = "params"
	Body   Location = "body"
)

const bodyLocalsKey = "validation.body"

// Rule checks one field. Exactly one of Tag or Check is set: Tag is a
// go-playground/validator tag evaluated on the field's string form, Check a
// predicate on the raw value (nil when the field is missing).
type Rule struct {
	In      Location
	Field   string
	Tag     string
	Check   func(value any) bool
	Message string
}

var (
	integerRegex = regexp.MustCompile(`^[-+]?[0-9]+$`)
	decimalRegex = regexp.MustCompile(`^[-+]?([0-9]*[.])?[0-9]+$`)
)

// Validator evaluates rule lists.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator. Besides the built-in tags it knows "integer", an
// optionally signed run of digits, and "decimal", which also accepts a
// fraction with or without leading digits (".5").
func New() *Validator {
	validate := validator.New()
	_ = validate.RegisterValidation("integer", matches(integerRegex))
	_ = validate.RegisterValidation("decimal", matches(decimalRegex))
	return &Validator{validate: validate}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Validate evaluates all rules against params and body and returns the
// failures in rule order. It never stops at the first failure.
func (v *Validator) Validate(rules []Rule, params map[string]string, body map[string]any) []errs.FieldError {
	var failures []errs.FieldError
	for _, rule := range rules {
		var raw any
		switch rule.In {
		case Params:
			if p, ok := params[rule.Field]; ok {
				raw = p
			}
		case Body:
			raw = body[rule.Field]
		}

		if v.passes(rule, raw) {
			continue
		}
		failures = append(failures, errs.FieldError{
			Type:     "field",
			Value:    raw,
			Msg:      rule.Message,
			Path:     rule.Field,
			Location: string(rule.In),
		})
	}
	return failures
}

func (v *Validator) passes(rule Rule, raw any) bool {
	if rule.Check != nil {
		return rule.Check(raw)
	}
	return v.validate.Var(ToString(raw), rule.Tag) == nil
}

// Middleware decodes the JSON body, runs rules and either rejects the request
// with an *errs.ValidationError or stores the body for the handler.
func (v *Validator) Middleware(rules ...Rule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := decodeBody(c)
		if err != nil {
			return &errs.ValidationError{Errors: []errs.FieldError{{
				Type:     "field",
				Msg:      "JSON no valido",
				Path:     "",
				Location: string(Body),
			}}}
		}

		params := make(map[string]string)
		for _, rule := range rules {
			if rule.In == Params {
				params[rule.Field] = c.Params(rule.Field)
			}
		}

		if failures := v.Validate(rules, params, body); len(failures) > 0 {
			return &errs.ValidationError{Errors: failures}
		}

		c.Locals(bodyLocalsKey, body)
		return c.Next()
	}
}

// BodyFrom returns the body decoded by Middleware. It is never nil.
func BodyFrom(c *fiber.Ctx) map[string]any {
	if body, ok := c.Locals(bodyLocalsKey).(map[string]any); ok && body != nil {
		return body
	}
	return map[string]any{}
}

func decodeBody(c *fiber.Ctx) (map[string]any, error) {
	body := map[string]any{}
	raw := c.Body()
	// Bodies of other content types are not parsed, as if none was sent.
	if len(raw) == 0 || !c.Is("json") {
		return body, nil
	}
	if err := c.App().Config().JSONDecoder(raw, &body); err != nil {
		return nil, err
	}
	if body == nil {
		// A literal JSON null decodes to a nil map.
		body = map[string]any{}
	}
	return body, nil
}

// ToString renders a decoded JSON value the way the rules see it: missing and
// null become "", numbers their shortest decimal form, booleans "true" or
// "false", and objects or arrays their JSON text.
func ToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Number parses a decoded JSON value as a number, accepting numeric strings.
func Number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Bool parses a decoded JSON value as a boolean, accepting "true", "false",
// "1" and "0" as strings.
func Bool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case float64:
		if v == 1 || v == 0 {
			return v == 1, true
		}
	case string:
		switch v {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	return false, false
}
