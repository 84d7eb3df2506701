package schema

import "fmt"

func errScalarCannotParseLiteral(name string) error {
	return fmt.Errorf("%v cannot represent the literal value", name)
}

func errScalarCannotParseValue(name, valueDescription string, v interface{}) error {
	return fmt.Errorf("%v cannot represent %v: %#v", name, valueDescription, v)
}

func errScalarCannotSerialize(name string, v interface{}) error {
	return fmt.Errorf("%v cannot represent value: %#v", name, v)
}
