package record

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/onyxcorp/model/internal/deeputil"
	"github.com/onyxcorp/model/pkg/format"
)

// Attributes is the mapping of attribute name to value carried by a record.
type Attributes = map[string]any

// Model is an in-memory, schema-validated attribute container for a single
// structured record. All state transitions go through the schema gate: a
// mutation that fails validation commits nothing. A Model is intended for
// exclusive use by one logical owner; concurrent mutation is the caller's
// responsibility to prevent.
type Model struct {
	family *Family

	// cid is an opaque process-unique identity token assigned at
	// construction. It is never the record's business id and never persisted.
	cid string

	attributes Attributes

	// previousAttributes is the snapshot of attributes taken immediately
	// before the most recent effective mutation, nil until one occurs. It is
	// always a structural copy, never an alias of attributes.
	previousAttributes Attributes

	// changed holds exactly the proposed attributes of the last committed
	// mutation whose value diverged from the snapshot. It is recomputed
	// fully on every mutation, never accumulated.
	changed Attributes

	validationError string
}

// setOptions carries per-call mutation flags.
type setOptions struct {
	unset bool
}

// SetOption adjusts a single Set/Unset/Clear call.
type SetOption func(*setOptions)

// WithUnset marks the proposed attribute names for removal instead of
// assignment.
func WithUnset() SetOption {
	return func(o *setOptions) { o.unset = true }
}

// CID returns the instance's process-unique identity token.
func (m *Model) CID() string {
	return m.cid
}

// Family returns the family the instance belongs to.
func (m *Model) Family() *Family {
	return m.family
}

// Get returns the current value of a declared attribute. Reading a name the
// schema does not declare yields (nil, false) and a diagnostics entry; it is
// never fatal.
func (m *Model) Get(name string) (any, bool) {
	if !m.family.schema.Declares(name) {
		m.family.log.Warn("record: get of undeclared attribute",
			"family", m.family.name, "attribute", name)
		return nil, false
	}
	value, ok := m.attributes[name]
	if !ok {
		return nil, false
	}
	return deeputil.Clone(value), true
}

// Has reports whether the attribute has a present, non-nil value.
func (m *Model) Has(name string) bool {
	value, ok := m.attributes[name]
	return ok && value != nil
}

// Set merges the proposed attributes into the record after the schema gate
// accepts the merged result. A nil proposal is an explicit no-op that skips
// the gate entirely. On any returned error the record's attributes,
// snapshot, and changed set are untouched.
func (m *Model) Set(attrs Attributes, opts ...SetOption) error {
	if attrs == nil {
		return nil
	}
	options := collectOptions(opts)
	proposed := make(Attributes, len(attrs))
	for name, value := range attrs {
		proposed[name] = deeputil.Clone(value)
	}
	return m.applySet(proposed, options.unset)
}

// SetValue assigns a single attribute through the same gated path as Set.
func (m *Model) SetValue(name string, value any, opts ...SetOption) error {
	return m.Set(Attributes{name: value}, opts...)
}

// Unset removes a single attribute; sugar for Set with unset semantics.
func (m *Model) Unset(name string, opts ...SetOption) error {
	return m.Set(Attributes{name: nil}, append(opts, WithUnset())...)
}

// Clear removes every currently-present attribute through one gated call.
func (m *Model) Clear(opts ...SetOption) error {
	proposed := make(Attributes, len(m.attributes))
	for name := range m.attributes {
		proposed[name] = nil
	}
	return m.Set(proposed, append(opts, WithUnset())...)
}

// applySet is the single mutation path: gate first, then snapshot, commit,
// and change bookkeeping. proposed values are already cloned.
func (m *Model) applySet(proposed Attributes, unset bool) error {
	merged := make(Attributes, len(m.attributes)+len(proposed))
	for name, value := range m.attributes {
		merged[name] = value
	}
	for name, value := range proposed {
		if unset {
			delete(merged, name)
			continue
		}
		merged[name] = value
	}

	if err := m.checkSchema(merged); err != nil {
		m.family.metrics.ObserveMutation(m.family.name, false)
		return err
	}

	// The snapshot refreshes only when the call actually alters state; a
	// committed no-effect set leaves the prior snapshot in place, so a value
	// set twice in a row still reads as changed relative to that snapshot.
	effective := false
	for name, value := range proposed {
		current, present := m.attributes[name]
		if unset {
			if present {
				effective = true
			}
			continue
		}
		if !present || !deeputil.Equal(current, value) {
			effective = true
		}
	}
	if effective {
		m.previousAttributes = deeputil.CloneMap(m.attributes)
	}

	changed := make(Attributes, len(proposed))
	for name, value := range proposed {
		if unset {
			delete(m.attributes, name)
			if _, had := m.previousAttributes[name]; had {
				changed[name] = nil
			}
			continue
		}
		m.attributes[name] = value
		prev, had := m.previousAttributes[name]
		if !had || !deeputil.Equal(value, prev) {
			changed[name] = deeputil.Clone(value)
		}
	}
	m.changed = changed
	m.family.metrics.ObserveMutation(m.family.name, true)
	return nil
}

// checkSchema is the schema gate: it judges the attribute set the record
// would hold after the mutation and records the outcome in validationError.
// It never mutates attributes.
func (m *Model) checkSchema(candidate Attributes) error {
	f := m.family
	if f.schema == nil {
		m.validationError = "missing schema"
		f.log.Warn("record: family has no schema", "family", f.name)
		f.metrics.ObserveValidation(f.name, false)
		return fmt.Errorf("%w: family %s declares none", ErrSchemaMissing, f.name)
	}

	var undeclared []string
	for name := range candidate {
		if !f.schema.Declares(name) {
			undeclared = append(undeclared, name)
		}
	}
	if len(undeclared) > 0 {
		sort.Strings(undeclared)
		m.validationError = "undeclared attribute(s): " + strings.Join(undeclared, ", ")
		f.log.Warn("record: undeclared attribute(s)",
			"family", f.name, "attributes", strings.Join(undeclared, ", "))
		f.metrics.ObserveValidation(f.name, false)
		return fmt.Errorf("%w: %s", ErrUndeclaredAttribute, strings.Join(undeclared, ", "))
	}

	result := f.validator.Validate(candidate, f.schema)
	if !result.Valid {
		m.validationError = result.Diagnostics
		f.metrics.ObserveValidation(f.name, false)
		return fmt.Errorf("%w: %s", ErrSchemaViolation, result.Diagnostics)
	}
	m.validationError = ""
	f.metrics.ObserveValidation(f.name, true)
	return nil
}

// IsValid reports whether the current attribute set passes the schema gate
// with no proposed changes, updating ValidationError either way.
func (m *Model) IsValid() bool {
	merged := make(Attributes, len(m.attributes))
	for name, value := range m.attributes {
		merged[name] = value
	}
	return m.checkSchema(merged) == nil
}

// ValidationError returns the last validation failure description, or the
// empty string when the record currently validates.
func (m *Model) ValidationError() string {
	return m.validationError
}

// IsNew reports whether the record has no value under the family's
// id attribute, i.e. it has never been assigned an external identifier.
func (m *Model) IsNew() bool {
	value, ok := m.attributes[m.family.idAttribute]
	return !ok || value == nil
}

// ID returns the record's external identifier, if present.
func (m *Model) ID() (any, bool) {
	value, ok := m.attributes[m.family.idAttribute]
	if !ok || value == nil {
		return nil, false
	}
	return deeputil.Clone(value), true
}

// HasChanged reports whether the given attribute diverged in the most recent
// mutation, or whether anything did when called without arguments.
func (m *Model) HasChanged(names ...string) bool {
	if len(names) == 0 {
		return len(m.changed) > 0
	}
	for _, name := range names {
		if _, ok := m.changed[name]; ok {
			return true
		}
	}
	return false
}

// Changed returns a copy of the changed set from the most recent mutation.
func (m *Model) Changed() Attributes {
	return deeputil.CloneMap(m.changed)
}

// Previous returns the attribute's value in the snapshot taken before the
// most recent mutation. It reports false before any mutation has occurred.
func (m *Model) Previous(name string) (any, bool) {
	if m.previousAttributes == nil {
		return nil, false
	}
	value, ok := m.previousAttributes[name]
	if !ok {
		return nil, false
	}
	return deeputil.Clone(value), true
}

// PreviousAttributes returns a structural copy of the snapshot, or nil before
// any mutation has occurred.
func (m *Model) PreviousAttributes() Attributes {
	return deeputil.CloneMap(m.previousAttributes)
}

// Attributes returns a structural copy of the current attribute set.
func (m *Model) Attributes() Attributes {
	out := make(Attributes, len(m.attributes))
	for name, value := range m.attributes {
		out[name] = deeputil.Clone(value)
	}
	return out
}

// Clone constructs a new instance of the same family from a copy of the
// current attributes. The clone is independently mutable and carries a fresh
// identity token.
func (m *Model) Clone() (*Model, error) {
	return m.family.New(m.Attributes())
}

// ToJSON renders the current attributes through the family serializer.
func (m *Model) ToJSON() ([]byte, error) {
	return m.family.serializer(m.Attributes())
}

// To applies a named transform to the current value of an attribute: family
// methods win over the shared registry, mirroring instance-first lookup. A
// missing transform degrades to a diagnostics entry plus ErrFormatterNotFound
// with the attribute's current value returned untouched; nothing mutates.
func (m *Model) To(typeName, attrName string, extra ...any) (any, error) {
	if method, ok := m.family.Method(typeName); ok {
		return method(m, append([]any{attrName}, extra...)...)
	}
	value, _ := m.Get(attrName)
	formatted, err := m.family.formats.Apply(typeName, value, extra...)
	if err != nil {
		if errors.Is(err, format.ErrNotFound) {
			m.family.log.Warn("record: formatter not found",
				"family", m.family.name, "formatter", typeName, "attribute", attrName)
			return value, fmt.Errorf("%w: %s", ErrFormatterNotFound, typeName)
		}
		return value, err
	}
	return formatted, nil
}

// Call invokes a named family method with parent-chain resolution.
func (m *Model) Call(name string, args ...any) (any, error) {
	method, ok := m.family.Method(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, name)
	}
	return method(m, args...)
}

func collectOptions(opts []SetOption) setOptions {
	var options setOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
