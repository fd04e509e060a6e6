package query

import "encoding/json"

// The AST encodes to JSON with a "kind" discriminator on every expression
// and operand, so consumers in other languages can switch on it.

func (k ItemKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (s Sort) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (e *NestExp) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Exp  Exp    `json:"exp"`
	}{e.Kind().String(), e.Exp})
}

func (e *NotExp) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Exp  Exp    `json:"exp"`
	}{e.Kind().String(), e.Exp})
}

func (e *LogicExp) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string `json:"kind"`
		Left  Exp    `json:"left"`
		Op    string `json:"op"`
		Right Exp    `json:"right"`
	}{e.Kind().String(), e.Left, e.Op.String(), e.Right})
}

func (e *CompareExp) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string  `json:"kind"`
		Left  *Column `json:"left"`
		Op    string  `json:"op"`
		Right Operand `json:"right"`
	}{e.Kind().String(), e.Left, e.Op.String(), e.Right})
}

type namedOperand struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

func (c *Column) MarshalJSON() ([]byte, error) {
	return json.Marshal(namedOperand{"column", c.Name})
}

func (p *Param) MarshalJSON() ([]byte, error) {
	return json.Marshal(namedOperand{"param", p.Name})
}

func marshalValue(v Value) ([]byte, error) {
	return json.Marshal(struct {
		Kind  string `json:"kind"`
		Value any    `json:"value"`
	}{v.Kind().String(), v.Interface()})
}

func (v IntValue) MarshalJSON() ([]byte, error) { return marshalValue(v) }
func (v FloatValue) MarshalJSON() ([]byte, error) { return marshalValue(v) }
func (v StringValue) MarshalJSON() ([]byte, error) { return marshalValue(v) }
func (v BoolValue) MarshalJSON() ([]byte, error) { return marshalValue(v) }
func (v NullValue) MarshalJSON() ([]byte, error) { return marshalValue(v) }
