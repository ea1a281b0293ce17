package spec

import (
	"fmt"
	"strings"
)

// Validation error codes (E100-E199)
const (
	ErrLevelNameEmpty      = "E101" // level name missing or sanitizes to empty
	ErrNoComponents        = "E102" // at least one component required
	ErrDuplicateName       = "E103" // duplicate component/flow name
	ErrDuplicateState      = "E104" // duplicate state within a component/flow
	ErrDuplicateFault      = "E105" // duplicate fault within a component
	ErrNameSanitizesEmpty  = "E106" // a name sanitizes to empty
	ErrSanitizedCollision  = "E107" // two entities collide after sanitization
	ErrUnknownComponent    = "E108" // reference to an undeclared component
	ErrUnknownFlow         = "E109" // reference to an undeclared flow
	ErrComponentIncomplete = "E110" // component has neither states nor faults
)

// ValidationError represents one spec validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors aggregates every violation found in one pass.
type ValidationErrors []ValidationError

// Error joins all violations, one per line.
func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Validate checks a LevelSpec against the data model invariants and the
// readiness predicate. It returns every violation found, never stopping
// at the first. An empty result means the spec is renderable.
func Validate(s *LevelSpec) ValidationErrors {
	var errs ValidationErrors

	if Identifier(s.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("level name %q is missing or has no usable characters", s.Name),
			Code:    ErrLevelNameEmpty,
		})
	}

	if len(s.Components) == 0 {
		errs = append(errs, ValidationError{
			Field:   "components",
			Message: "at least one component is required",
			Code:    ErrNoComponents,
		})
	}

	// Sanitized names must be unique across components and flows: the
	// architecture artifact refers to every entity by sanitized name.
	sanitized := make(map[string]string) // sanitized -> original

	componentNames := make(map[string]bool)
	for i, c := range s.Components {
		field := fmt.Sprintf("components[%d]", i)
		if componentNames[c.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate component name: %q", c.Name),
				Code:    ErrDuplicateName,
			})
		}
		componentNames[c.Name] = true
		errs = append(errs, checkSanitized(field+".name", c.Name, sanitized)...)
		errs = append(errs, validateComponent(field, &c)...)
	}

	flowNames := make(map[string]bool)
	for i, f := range s.Flows {
		field := fmt.Sprintf("flows[%d]", i)
		if flowNames[f.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate flow name: %q", f.Name),
				Code:    ErrDuplicateName,
			})
		}
		flowNames[f.Name] = true
		errs = append(errs, checkSanitized(field+".name", f.Name, sanitized)...)
		errs = append(errs, validateVars(field+".vars", f.Vars)...)
	}

	for i, name := range s.Architecture.Components {
		if !componentNames[name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("architecture.components[%d]", i),
				Message: fmt.Sprintf("architecture lists unknown component %q", name),
				Code:    ErrUnknownComponent,
			})
		}
	}

	for i, conn := range s.Architecture.Connections {
		field := fmt.Sprintf("architecture.connections[%d]", i)
		if !componentNames[conn.From] {
			errs = append(errs, ValidationError{
				Field:   field + ".from",
				Message: fmt.Sprintf("connection references unknown component %q", conn.From),
				Code:    ErrUnknownComponent,
			})
		}
		if !componentNames[conn.To] {
			errs = append(errs, ValidationError{
				Field:   field + ".to",
				Message: fmt.Sprintf("connection references unknown component %q", conn.To),
				Code:    ErrUnknownComponent,
			})
		}
		if !flowNames[conn.Flow] {
			errs = append(errs, ValidationError{
				Field:   field + ".flow",
				Message: fmt.Sprintf("connection references unknown flow %q", conn.Flow),
				Code:    ErrUnknownFlow,
			})
		}
	}

	return errs
}

// validateComponent checks per-component invariants.
func validateComponent(field string, c *ComponentSpec) ValidationErrors {
	var errs ValidationErrors

	errs = append(errs, validateVars(field+".states", c.States)...)

	faultNames := make(map[string]bool)
	for i, f := range c.Faults {
		ffield := fmt.Sprintf("%s.faults[%d]", field, i)
		if faultNames[f.Name] {
			errs = append(errs, ValidationError{
				Field:   ffield + ".name",
				Message: fmt.Sprintf("duplicate fault name %q in component %q", f.Name, c.Name),
				Code:    ErrDuplicateFault,
			})
		}
		faultNames[f.Name] = true
		if Identifier(f.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   ffield + ".name",
				Message: fmt.Sprintf("fault name %q has no usable characters", f.Name),
				Code:    ErrNameSanitizesEmpty,
			})
		}
	}

	if len(c.States) == 0 && len(c.Faults) == 0 {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("component %q declares neither states nor faults", c.Name),
			Code:    ErrComponentIncomplete,
		})
	}

	return errs
}

// validateVars checks uniqueness and sanitizability of a variable set.
func validateVars(field string, vars []StateVar) ValidationErrors {
	var errs ValidationErrors
	names := make(map[string]bool)
	for i, v := range vars {
		vfield := fmt.Sprintf("%s[%d].name", field, i)
		if names[v.Name] {
			errs = append(errs, ValidationError{
				Field:   vfield,
				Message: fmt.Sprintf("duplicate state variable: %q", v.Name),
				Code:    ErrDuplicateState,
			})
		}
		names[v.Name] = true
		if Identifier(v.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   vfield,
				Message: fmt.Sprintf("state name %q has no usable characters", v.Name),
				Code:    ErrNameSanitizesEmpty,
			})
		}
	}
	return errs
}

// checkSanitized verifies a top-level entity name survives sanitization
// and does not collide with another entity's sanitized form. Collisions
// report both the original and sanitized spellings.
func checkSanitized(field, name string, seen map[string]string) ValidationErrors {
	var errs ValidationErrors
	safe := Identifier(name)
	if safe == "" {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("name %q has no usable characters", name),
			Code:    ErrNameSanitizesEmpty,
		})
		return errs
	}
	if prev, ok := seen[safe]; ok && prev != name {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("name %q collides with %q after sanitization (both become %q)", name, prev, safe),
			Code:    ErrSanitizedCollision,
		})
	}
	seen[safe] = name
	return errs
}
