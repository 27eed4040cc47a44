// Package record implements the schema-validated attribute container at the
// heart of the module: a Model tracks mutations against a single structured
// record and refuses any change its family schema does not sanction, and a
// Family derives specialized record behavior from a base behavior set by
// composition rather than chain rewiring.
package record

import (
	"encoding/json"

	"github.com/onyxcorp/model/internal/deeputil"
	"github.com/onyxcorp/model/pkg/format"
	"github.com/onyxcorp/model/pkg/ident"
	"github.com/onyxcorp/model/pkg/schema"
)

// cidPrefix is the prefix for process-unique instance identity tokens.
const cidPrefix = "c"

// defaultIDAttribute names the attribute treated as the record's external
// identifier when a family does not override it.
const defaultIDAttribute = "id"

// Method is an instance-level operation attached to a family. Overriding
// families may delegate to the inherited implementation through
// Family.Parent().
type Method func(m *Model, args ...any) (any, error)

// Serializer renders an attribute map to its textual representation. The core
// calls it from ToJSON but does not constrain its format.
type Serializer func(attrs Attributes) ([]byte, error)

// FamilyConfig carries the declarative pieces of a record family. Zero-valued
// fields inherit from the parent on Extend and fall back to library defaults
// on NewFamily.
type FamilyConfig struct {
	// Name identifies the family in diagnostics and metrics.
	Name string
	// Schema declares the legal attribute names and value shapes. A family
	// without a schema can never be judged valid.
	Schema *schema.Schema
	// Validator judges merged attribute sets against the schema. Defaults to
	// schema.NewValidator().
	Validator schema.Validator
	// IDAttribute names the record's external identifier attribute.
	IDAttribute string
	// Defaults are merged under constructor-supplied attributes, after any
	// schema-declared property defaults.
	Defaults Attributes
	// Methods are instance-level operation overrides and additions.
	Methods map[string]Method
	// Statics are family-level shared data, copied onto derived families at
	// extension time.
	Statics map[string]any
	// Serializer overrides the JSON serializer.
	Serializer Serializer
	// IDs supplies instance identity tokens. Defaults to ident.Sequential().
	IDs ident.Generator
	// Formats is the named-transform registry consulted by Model.To.
	Formats *format.Registry
	// Logger receives recoverable-anomaly diagnostics.
	Logger Logger
	// Metrics receives validation and mutation outcome counts.
	Metrics Metrics
}

// Family is a specific kind of record: a schema, a behavior set, and the
// collaborators its instances share. A family is immutable after construction
// apart from its statics and is safe for shared read by all its instances.
type Family struct {
	name        string
	schema      *schema.Schema
	validator   schema.Validator
	idAttribute string
	defaults    Attributes
	methods     map[string]Method
	statics     map[string]any
	serializer  Serializer
	ids         ident.Generator
	formats     *format.Registry
	log         Logger
	metrics     Metrics
	parent      *Family
}

// NewFamily builds a root family from the supplied configuration.
func NewFamily(cfg FamilyConfig) *Family {
	f := &Family{
		name:        cfg.Name,
		schema:      cfg.Schema,
		validator:   cfg.Validator,
		idAttribute: cfg.IDAttribute,
		defaults:    deeputil.CloneMap(cfg.Defaults),
		methods:     cloneMethods(cfg.Methods),
		statics:     deeputil.CloneMap(cfg.Statics),
		serializer:  cfg.Serializer,
		ids:         cfg.IDs,
		formats:     cfg.Formats,
		log:         cfg.Logger,
		metrics:     cfg.Metrics,
	}
	if f.validator == nil {
		f.validator = schema.NewValidator()
	}
	if f.idAttribute == "" {
		f.idAttribute = defaultIDAttribute
	}
	if f.serializer == nil {
		f.serializer = func(attrs Attributes) ([]byte, error) {
			return json.Marshal(map[string]any(attrs))
		}
	}
	if f.ids == nil {
		f.ids = ident.Sequential()
	}
	if f.formats == nil {
		f.formats = format.NewRegistry()
	}
	if f.log == nil {
		f.log = NopLogger()
	}
	if f.metrics == nil {
		f.metrics = NopMetrics()
	}
	return f
}

// Extend derives a new family from the receiver. The derived family inherits
// every unset configuration field, copies the parent's statics so later
// reassignment on the parent does not leak into the child, and retains the
// parent reference so overridden methods can delegate to the inherited
// implementation. Extend never runs the parent's construction path; instances
// come only from New.
func (f *Family) Extend(cfg FamilyConfig) *Family {
	child := &Family{
		name:        cfg.Name,
		schema:      cfg.Schema,
		validator:   cfg.Validator,
		idAttribute: cfg.IDAttribute,
		defaults:    deeputil.CloneMap(cfg.Defaults),
		methods:     cloneMethods(cfg.Methods),
		serializer:  cfg.Serializer,
		ids:         cfg.IDs,
		formats:     cfg.Formats,
		log:         cfg.Logger,
		metrics:     cfg.Metrics,
		parent:      f,
	}
	if child.name == "" {
		child.name = f.name
	}
	if child.schema == nil {
		child.schema = f.schema
	}
	if child.validator == nil {
		child.validator = f.validator
	}
	if child.idAttribute == "" {
		child.idAttribute = f.idAttribute
	}
	if child.defaults == nil {
		child.defaults = deeputil.CloneMap(f.defaults)
	}
	if child.serializer == nil {
		child.serializer = f.serializer
	}
	if child.ids == nil {
		child.ids = f.ids
	}
	if child.formats == nil {
		child.formats = f.formats
	}
	if child.log == nil {
		child.log = f.log
	}
	if child.metrics == nil {
		child.metrics = f.metrics
	}

	// Statics attached to the parent at extension time are copied, then any
	// child-declared statics override.
	statics := deeputil.CloneMap(f.statics)
	if statics == nil && cfg.Statics != nil {
		statics = make(map[string]any, len(cfg.Statics))
	}
	for name, value := range cfg.Statics {
		statics[name] = deeputil.Clone(value)
	}
	child.statics = statics
	return child
}

// New constructs an instance, populating its attributes by pushing the merge
// of schema defaults, family defaults, and the supplied attributes through
// the same gated mutation path used by Set. On gate failure the instance is
// still returned alongside the error with its attributes empty and its
// validation error recorded, so schemaless families remain observable.
func (f *Family) New(attrs Attributes) (*Model, error) {
	m := &Model{
		family:     f,
		cid:        f.ids.Next(cidPrefix),
		attributes: Attributes{},
	}
	initial := Attributes{}
	for name, value := range f.schema.Defaults() {
		initial[name] = deeputil.Clone(value)
	}
	for name, value := range f.defaults {
		initial[name] = deeputil.Clone(value)
	}
	for name, value := range attrs {
		initial[name] = deeputil.Clone(value)
	}
	if err := m.applySet(initial, false); err != nil {
		return m, err
	}
	// Construction populates; it does not count as the first mutation.
	m.changed = nil
	m.previousAttributes = nil
	return m, nil
}

// Name returns the family identifier used in diagnostics.
func (f *Family) Name() string {
	return f.name
}

// Schema returns the family's schema declaration.
func (f *Family) Schema() *schema.Schema {
	return f.schema
}

// IDAttribute returns the attribute name treated as the record identifier.
func (f *Family) IDAttribute() string {
	return f.idAttribute
}

// Parent returns the family this one was extended from, or nil for a root
// family.
func (f *Family) Parent() *Family {
	return f.parent
}

// Method resolves a named operation, consulting the receiver first and then
// walking up the family chain.
func (f *Family) Method(name string) (Method, bool) {
	for fam := f; fam != nil; fam = fam.parent {
		if method, ok := fam.methods[name]; ok {
			return method, true
		}
	}
	return nil, false
}

// OwnMethod resolves a named operation on the receiver only, without chain
// lookup. Overrides use it together with Parent to delegate explicitly.
func (f *Family) OwnMethod(name string) (Method, bool) {
	method, ok := f.methods[name]
	return method, ok
}

// Static returns a copy of the named family-level datum.
func (f *Family) Static(name string) (any, bool) {
	value, ok := f.statics[name]
	if !ok {
		return nil, false
	}
	return deeputil.Clone(value), true
}

// SetStatic attaches or reassigns a family-level datum. Families already
// extended from this one keep the copies taken at extension time.
func (f *Family) SetStatic(name string, value any) {
	if f.statics == nil {
		f.statics = make(map[string]any)
	}
	f.statics[name] = deeputil.Clone(value)
}

func cloneMethods(methods map[string]Method) map[string]Method {
	if methods == nil {
		return nil
	}
	clone := make(map[string]Method, len(methods))
	for name, method := range methods {
		clone[name] = method
	}
	return clone
}
