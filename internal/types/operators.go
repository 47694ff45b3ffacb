package types

var numericRank = map[string]int{
	"byte": 1, "short": 2, "char": 2, "int": 3, "long": 4, "float": 5, "double": 6,
}

// IsNumeric reports whether t (after unboxing) is a numeric primitive.
func IsNumeric(t *Type) bool {
	u, _ := Unbox(t)
	if !u.IsPrimitive() {
		return false
	}
	_, ok := numericRank[u.Name]
	return ok
}

// IsBoolean reports whether t is boolean or Boolean.
func IsBoolean(t *Type) bool {
	u, _ := Unbox(t)
	return u.IsPrimitive() && u.Name == "boolean"
}

// BinaryNumeric applies binary numeric promotion; ok is false for non-numeric operands.
func BinaryNumeric(a, b *Type) (*Type, bool) {
	if !IsNumeric(a) || !IsNumeric(b) {
		return nil, false
	}
	ua, _ := Unbox(a)
	ub, _ := Unbox(b)
	ra, rb := numericRank[ua.Name], numericRank[ub.Name]
	switch top := max(ra, rb); {
	case top <= 3:
		return MakePrimitive("int"), true
	case top == 4:
		return MakePrimitive("long"), true
	case top == 5:
		return MakePrimitive("float"), true
	default:
		return MakePrimitive("double"), true
	}
}

// UnaryNumeric applies unary numeric promotion.
func UnaryNumeric(t *Type) (*Type, bool) {
	if !IsNumeric(t) {
		return nil, false
	}
	u, _ := Unbox(t)
	if numericRank[u.Name] < 3 {
		return MakePrimitive("int"), true
	}
	return u, true
}

// BinaryResult is the static type of `a op b`; ok is false when the
// operator does not apply to the operands.
func BinaryResult(op string, a, b *Type) (*Type, bool) {
	switch op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||", "instanceof":
		return MakePrimitive("boolean"), true
	case "+":
		if a.Is(StringName) || b.Is(StringName) {
			return String(), true
		}
		return BinaryNumeric(a, b)
	case "-", "*", "/", "%":
		return BinaryNumeric(a, b)
	case "<<", ">>", ">>>":
		return UnaryNumeric(a)
	case "&", "|", "^":
		if IsBoolean(a) && IsBoolean(b) {
			return MakePrimitive("boolean"), true
		}
		return BinaryNumeric(a, b)
	default:
		return nil, false
	}
}
