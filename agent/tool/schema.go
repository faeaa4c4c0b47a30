package tool

import (
	"github.com/invopop/jsonschema"
)

// InputSchema reflects the JSON schema of an operation's typed arguments.
func (s Spec) InputSchema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}
	sch := reflector.Reflect(s.newArgs())
	sch.Version = ""
	sch.ID = ""
	return sch
}
