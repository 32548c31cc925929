package jsontree

import "github.com/kaptinlin/go-i18n"

// EvaluationError is one rule failure produced by a Validator, keyed by
// rule code (e.g. "minimum", "required", "dependentRequired") so a
// caller can look a specific failure up or localize it independently of
// the others at the same path.
type EvaluationError struct {
	Rule    string         `json:"rule"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params"`
}

// NewEvaluationError builds an EvaluationError for rule/code with a
// message template using {placeholder} substitution against params.
func NewEvaluationError(rule, code, message string, params ...map[string]any) *EvaluationError {
	e := &EvaluationError{Rule: rule, Code: code, Message: message}
	if len(params) > 0 {
		e.Params = params[0]
	}
	return e
}

func (e *EvaluationError) Error() string { return replace(e.Message, e.Params) }

// Localize renders the error through localizer, falling back to the
// English template if localizer is nil.
func (e *EvaluationError) Localize(localizer *i18n.Localizer) string {
	if localizer != nil {
		return localizer.Get(e.Code, i18n.Vars(e.Params))
	}
	return e.Error()
}

// Flag is the coarsest validation result: just pass/fail.
type Flag struct {
	Valid bool `json:"valid"`
}

// List is a flattenable rendering of an EvaluationResult tree.
type List struct {
	Valid            bool              `json:"valid"`
	InstanceLocation string            `json:"instanceLocation"`
	Annotations      map[string]any    `json:"annotations,omitempty"`
	Errors           map[string]string `json:"errors,omitempty"`
	Details          []List            `json:"details,omitempty"`
}

// EvaluationResult is the tree-shaped outcome of validating one
// VirtualNode against a SchemaModel: a node's own rule failures plus one
// nested EvaluationResult per child the model also describes (object
// member rules, array item rules).
type EvaluationResult struct {
	model            *SchemaModel
	Valid            bool                        `json:"valid"`
	InstanceLocation string                      `json:"instanceLocation"`
	Annotations      map[string]any              `json:"annotations,omitempty"`
	Errors           map[string]*EvaluationError `json:"errors,omitempty"`
	Details          []*EvaluationResult         `json:"details,omitempty"`
}

// NewEvaluationResult starts a result for model, valid until AddError is
// called.
func NewEvaluationResult(model *SchemaModel) *EvaluationResult {
	r := &EvaluationResult{model: model, Valid: true}
	r.collectAnnotations()
	return r
}

func (e *EvaluationResult) collectAnnotations() {
	if e.model == nil {
		return
	}
	if e.model.Title != "" || e.model.Description != "" {
		e.Annotations = map[string]any{}
		if e.model.Title != "" {
			e.Annotations["title"] = e.model.Title
		}
		if e.model.Description != "" {
			e.Annotations["description"] = e.model.Description
		}
	}
}

func (e *EvaluationResult) Error() string { return "evaluation failed" }

// SetInstanceLocation records the path this result describes.
func (e *EvaluationResult) SetInstanceLocation(loc string) *EvaluationResult {
	e.InstanceLocation = loc
	return e
}

// SetInvalid marks the result failed without attaching a specific rule
// error.
func (e *EvaluationResult) SetInvalid() *EvaluationResult {
	e.Valid = false
	return e
}

// IsValid reports the result's validity.
func (e *EvaluationResult) IsValid() bool { return e.Valid }

// AddError attaches a rule failure and marks the result invalid.
func (e *EvaluationResult) AddError(err *EvaluationError) *EvaluationResult {
	if e.Errors == nil {
		e.Errors = make(map[string]*EvaluationError)
	}
	e.Valid = false
	e.Errors[err.Rule] = err
	return e
}

// AddDetail attaches a child result (one per member/item the model also
// constrains) and propagates its invalidity upward.
func (e *EvaluationResult) AddDetail(detail *EvaluationResult) *EvaluationResult {
	e.Details = append(e.Details, detail)
	if !detail.Valid {
		e.Valid = false
	}
	return e
}

// ToFlag discards everything but pass/fail.
func (e *EvaluationResult) ToFlag() *Flag { return &Flag{Valid: e.Valid} }

// ToList renders the result tree with hierarchy preserved (or flattened
// if includeHierarchy is explicitly false).
func (e *EvaluationResult) ToList(includeHierarchy ...bool) *List {
	return e.ToLocalizedList(nil, includeHierarchy...)
}

// ToLocalizedList is ToList with localized error messages.
func (e *EvaluationResult) ToLocalizedList(localizer *i18n.Localizer, includeHierarchy ...bool) *List {
	hierarchy := true
	if len(includeHierarchy) > 0 {
		hierarchy = includeHierarchy[0]
	}
	list := &List{
		Valid:            e.Valid,
		InstanceLocation: e.InstanceLocation,
		Annotations:      e.Annotations,
		Errors:           e.convertErrors(localizer),
	}
	if hierarchy {
		for _, d := range e.Details {
			list.Details = append(list.Details, *d.ToLocalizedList(localizer, true))
		}
	} else {
		e.flatten(localizer, list)
	}
	return list
}

func (e *EvaluationResult) flatten(localizer *i18n.Localizer, list *List) {
	for _, d := range e.Details {
		list.Details = append(list.Details, List{
			Valid:            d.Valid,
			InstanceLocation: d.InstanceLocation,
			Annotations:      d.Annotations,
			Errors:           d.convertErrors(localizer),
		})
		d.flatten(localizer, list)
	}
}

func (e *EvaluationResult) convertErrors(localizer *i18n.Localizer) map[string]string {
	if len(e.Errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.Errors))
	for rule, err := range e.Errors {
		if localizer != nil {
			out[rule] = err.Localize(localizer)
		} else {
			out[rule] = err.Error()
		}
	}
	return out
}

// GetDetailedErrors flattens the whole Details hierarchy into
// key -> message, one entry per rule error of every result, keyed by
// that result's InstanceLocation + "/" + rule (just the rule at the root).
func (e *EvaluationResult) GetDetailedErrors(localizer ...*i18n.Localizer) map[string]string {
	var loc *i18n.Localizer
	if len(localizer) > 0 {
		loc = localizer[0]
	}
	out := make(map[string]string)
	e.collectDetailedErrors(out, loc)
	return out
}

func (e *EvaluationResult) collectDetailedErrors(out map[string]string, localizer *i18n.Localizer) {
	for rule, err := range e.Errors {
		key := e.InstanceLocation
		if key != "" {
			key = key + "/" + rule
		} else {
			key = rule
		}
		if localizer != nil {
			out[key] = err.Localize(localizer)
		} else {
			out[key] = err.Error()
		}
	}
	for _, d := range e.Details {
		d.collectDetailedErrors(out, localizer)
	}
}
