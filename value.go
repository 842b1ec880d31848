package jsonish

import "math/big"

// Value is a decoded value tree node. The concrete types are Null, Bool,
// Int, Float, String, Array and Object.
type Value interface {
	valueNode()
}

// Null represents the null literal.
type Null struct{}

// Bool represents a boolean.
type Bool struct {
	Value bool
}

// Int represents an integer. Precision is arbitrary; Value is never
// truncated no matter how many digits the source literal has.
type Int struct {
	Value *big.Int
}

// Float represents a floating point number, including NaN and the
// infinities.
type Float struct {
	Value float64
}

// String represents a string.
type String struct {
	Value string
}

// Array represents an ordered sequence of values.
type Array struct {
	Elements []Value
}

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object represents a mapping with ordered members. Decoding keeps members
// in first-occurrence order; a duplicate key keeps its original position
// and takes the last value.
type Object struct {
	Members []Member
}

func (Null) valueNode()   {}
func (Bool) valueNode()   {}
func (Int) valueNode()    {}
func (Float) valueNode()  {}
func (String) valueNode() {}
func (Array) valueNode()  {}
func (Object) valueNode() {}

// NewInt returns an Int holding i.
func NewInt(i int64) Int {
	return Int{Value: big.NewInt(i)}
}

// Get returns the value of the member named key and whether it exists.
func (o Object) Get(key string) (Value, bool) {
	for _, m := range o.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set stores value under key. An existing member keeps its position and
// takes the new value; a new key is appended.
func (o *Object) Set(key string, value Value) {
	for i := range o.Members {
		if o.Members[i].Key == key {
			o.Members[i].Value = value
			return
		}
	}
	o.Members = append(o.Members, Member{Key: key, Value: value})
}

// Len returns the number of members.
func (o Object) Len() int {
	return len(o.Members)
}
