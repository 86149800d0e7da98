package values

type ValueString struct {
	Inner string
}

func (_ ValueString) Kind() ValueKind { return StringValueKind }

func (self ValueString) Display() string { return self.Inner }

func (self ValueString) IsEqual(other Value) bool {
	if other.Kind() != self.Kind() {
		return false
	}
	return self.Inner == other.(ValueString).Inner
}

func NewValueString(inner string) ValueString {
	return ValueString{Inner: inner}
}
