// Package schema holds the static metadata that drives the state runtime: a
// declared type is a named, ordered list of fields, each carrying a type
// descriptor, a nullable flag, an ordered validator list, and a default value.
//
// Schemas are plain data. There is no per-type generated code; the validation
// and dispatch engines consult a Registry at runtime for field layouts and
// validator metadata. That keeps every declared type introspectable and lets
// schemas be loaded from YAML documents as well as declared in code.
//
// # Usage
//
//	user := schema.MustNew("user",
//	    schema.Field{Name: "email", Type: schema.String(), Validators: []schema.Validator{
//	        schema.Format(`^[^@]+@[^@]+$`),
//	    }},
//	    schema.Field{Name: "age", Type: schema.Int(), Nullable: true, Validators: []schema.Validator{
//	        schema.Number(schema.GreaterThanOrEqual(0)),
//	    }},
//	)
//
//	reg := schema.NewRegistry()
//	reg.MustRegister(user)
//
// Field order is declaration order and is load-bearing: the diff engine
// reports changed fields in this order, and snapshot constructors bind
// positional values by it.
//
// Validators are data, not closures (with the single exception of Custom,
// which wraps a caller function and therefore cannot round-trip through
// YAML). The validate package interprets them.
package schema
